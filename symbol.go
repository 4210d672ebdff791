package emit

// Symbol is an event key that is equal only to itself. Use symbols instead
// of strings when independently written packages must not collide on an
// event name:
//
//	var OrderPlaced = emit.NewSymbol("order.placed")
//
//	d := emit.New[*emit.Symbol, Order](nil)
//	d.On(OrderPlaced, handler)
type Symbol struct {
	description string
}

func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

func (s *Symbol) Description() string {
	return s.description
}

func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}
