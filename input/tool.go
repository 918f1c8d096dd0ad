package input

// Category is the tool-dispatch bitmask spec.md §4.3 names.
type Category uint8

const (
	CategoryNone      Category = 0
	CategoryDirect    Category = 1 << iota
	CategoryImmediate
	CategoryView
)

// Kind enumerates the tool set spec.md §4.3 names.
type Kind uint8

const (
	Select Kind = iota
	DirectSelect
	Pen
	Pencil
	Pan
	Zoom
)

// Category returns k's dispatch category.
func (k Kind) Category() Category {
	switch k {
	case Pan:
		return CategoryImmediate | CategoryView
	case Zoom:
		return CategoryImmediate | CategoryView
	case Select:
		return CategoryNone
	case DirectSelect:
		return CategoryDirect
	case Pen:
		return CategoryDirect
	case Pencil:
		return CategoryImmediate
	default:
		return CategoryNone
	}
}

// Immediate reports whether k enters its moving state without a
// movement threshold (spec.md §4.3: "a non-Immediate tool" needs the
// threshold).
func (k Kind) Immediate() bool { return k.Category()&CategoryImmediate != 0 }

// ActiveTool resolves which tool is live given the current modifiers
// and a held middle button, per spec.md §4.3's selection rule:
// space held selects Pan (or Zoom with ctrl too); otherwise ctrl swaps
// Select/DirectSelect; a held middle button temporarily overrides to
// Pan/Zoom the same way space does.
func ActiveTool(current Kind, keys Modifiers, middleDown bool) Kind {
	if keys.Has(ModSpace) || middleDown {
		if keys.Has(ModCtrl) {
			return Zoom
		}
		return Pan
	}
	if keys.Has(ModCtrl) {
		switch current {
		case Select:
			return DirectSelect
		case DirectSelect:
			return Select
		}
	}
	return current
}

// MovementThreshold is the minimum client-space movement (in pixels)
// a pointer must travel before a non-Immediate tool transitions into
// its moving state, per pointer type (spec.md §4.3).
func MovementThreshold(t PointerType) float32 {
	switch t {
	case Touch:
		return 10
	case PointerPen:
		return 3
	default:
		return 4
	}
}

// thresholdExceeded reports whether a pointer has moved far enough
// from its gesture origin to enter the moving state for tool kind k.
func thresholdExceeded(k Kind, ptrType PointerType, client axisState) bool {
	if k.Immediate() {
		return true
	}
	return client.Position.Sub(client.Origin).Len() >= MovementThreshold(ptrType)
}

