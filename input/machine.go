package input

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
	"github.com/graphick-dev/graphick/scene"
)

// HitThreshold is the default pick radius (in scene units) used by
// hit-tests dispatched from this package.
const HitThreshold = 4

// PenHandleAngleStep is the angle increment a Shift-held Pen drag snaps
// its handle to.
const PenHandleAngleStep = math.Pi / 4

// DefaultWobbleHalfLife is the Pencil tool's default tremor-smoothing
// half-life.
const DefaultWobbleHalfLife = 40 * time.Millisecond

// PencilFitTolerance is the default scene-space curve-fit error
// tolerance for committed Pencil strokes, scaled by 1/zoom so it reads
// as a constant screen-space tolerance regardless of zoom level.
const PencilFitTolerance = 1.5

// pointOrigin records the pre-drag local-space position of one
// vertex/handle so dragSelected can recompute an absolute target every
// move event instead of accumulating per-event drift.
type pointOrigin struct {
	entity uuid.UUID
	index  int
	pos    geom.Vec2
}

// Machine is the tool state machine: it owns the currently active
// tool and gesture state, and translates pointer/key events into
// scene mutations (spec.md §4.3).
type Machine struct {
	Scene *scene.Scene

	current Kind
	moving  bool
	abort   bool

	keys           Modifiers
	middleDown     bool
	hover          Hover
	origin         geom.Vec2
	dragOriginal   map[uuid.UUID]geom.Affine2D
	dragPoints     []pointOrigin
	selectDragging bool

	pencilSamples  []geom.Vec2
	pencilSmoother WobbleSmoother
	penPath        *path.Path
	penEntity      uuid.UUID
}

// New returns a Machine bound to s, starting on the Select tool.
func New(s *scene.Scene) *Machine {
	return &Machine{Scene: s, current: Select, pencilSmoother: WobbleSmoother{HalfLife: DefaultWobbleHalfLife}}
}

// Active returns the tool currently live, after applying the space/
// ctrl/middle-button overrides from spec.md §4.3.
func (m *Machine) Active() Kind {
	return ActiveTool(m.current, m.keys, m.middleDown)
}

// SetTool sets the user-selected base tool (before modifier overrides).
func (m *Machine) SetTool(k Kind) { m.current = k }

// SetPencilSmoothing configures the Pencil tool's tremor-damping
// half-life; zero disables smoothing.
func (m *Machine) SetPencilSmoothing(halfLife time.Duration) {
	m.pencilSmoother.HalfLife = halfLife
}

// HandleKey updates modifier state and reacts to Escape (spec.md §4.3:
// "Escape sets abort; moving tools may cancel their in-progress batch").
func (m *Machine) HandleKey(ev KeyEvent) {
	switch ev.Name {
	case "Shift":
		m.setMod(ModShift, ev.State == KeyPress)
	case "Ctrl", "Control":
		m.setMod(ModCtrl, ev.State == KeyPress)
	case "Alt":
		m.setMod(ModAlt, ev.State == KeyPress)
	case "Space", " ":
		m.setMod(ModSpace, ev.State == KeyPress)
	case "Escape":
		if ev.State == KeyPress && m.moving {
			m.abort = true
			m.cancelBatch()
		}
	}
}

func (m *Machine) setMod(mod Modifiers, on bool) {
	if on {
		m.keys |= mod
	} else {
		m.keys &^= mod
	}
}

// HandlePointer dispatches a pointer event to the active tool.
func (m *Machine) HandlePointer(ev PointerEvent) {
	if ev.Button == ButtonMiddle {
		m.middleDown = ev.Phase != PointerUp && ev.Phase != PointerCancel
	}

	tool := m.Active()
	switch ev.Phase {
	case PointerDown:
		m.abort = false
		m.origin = ev.Scene.Position
		m.beginGesture(tool, ev)
	case PointerMove:
		if !m.moving && !tool.Immediate() && thresholdExceeded(tool, ev.Type, ev.Client) {
			m.moving = true
		}
		if m.moving || tool.Immediate() {
			m.continueGesture(tool, ev)
		} else {
			m.updateHover(ev)
		}
	case PointerUp, PointerCancel:
		m.endGesture(tool, ev)
		m.moving = false
	}
}

func (m *Machine) beginGesture(tool Kind, ev PointerEvent) {
	switch tool {
	case Select:
		m.beginSelectGesture(ev)
	case DirectSelect:
		m.beginDirectSelectGesture(ev)
	case Pan, Zoom:
		// handled continuously in continueGesture
	case Pen:
		m.beginPenVertex(ev)
	case Pencil:
		m.pencilSamples = m.pencilSamples[:0]
		m.pencilSmoother.Reset(ev.Scene.Position, ev.Time)
		m.pencilSamples = append(m.pencilSamples, ev.Scene.Position)
	}
}

// beginSelectGesture implements the Select tool's pointer-down: clicking
// an already-selected entity starts a whole-entity drag (duplicating the
// selection first under alt, per spec.md §4.3's "alt-drag duplicates");
// otherwise a marquee selection begins.
func (m *Machine) beginSelectGesture(ev PointerEvent) {
	id, hit := m.Scene.EntityAt(ev.Scene.Position, true, HitThreshold)
	if hit && m.Scene.Selection.Has(id) {
		if ev.Modifiers.Has(ModAlt) {
			m.duplicateSelection()
		}
		m.captureDragOrigins()
		m.selectDragging = true
		return
	}
	m.selectDragging = false
	if !ev.Modifiers.Has(ModShift) {
		m.Scene.Selection.Clear()
	}
}

// duplicateSelection replaces the current selection with a fresh copy of
// each selected entity, leaving the originals untouched, so a subsequent
// drag moves the copies (scene.DuplicateEntity).
func (m *Machine) duplicateSelection() {
	ids := m.Scene.Selection.Entities()
	m.Scene.Selection.Clear()
	for _, id := range ids {
		if dup, ok := m.Scene.DuplicateEntity(id); ok {
			m.Scene.Selection.Select(dup.ID())
		}
	}
}

// beginDirectSelectGesture runs the Vertex > Handle > Segment > Element
// precedence cascade (spec.md §4.3) and commits whichever granularity
// was hit into the selection.
func (m *Machine) beginDirectSelectGesture(ev PointerEvent) {
	id, kind, index := m.hitTestScene(ev.Scene.Position)
	if id != uuid.Nil {
		if !ev.Modifiers.Has(ModShift) {
			m.Scene.Selection.Clear()
		}
		switch kind {
		case HoverVertex, HoverHandle:
			m.Scene.Selection.SelectElement(id, index)
		default:
			m.Scene.Selection.Select(id)
		}
	}
	m.captureDragOrigins()
}

func (m *Machine) continueGesture(tool Kind, ev PointerEvent) {
	switch tool {
	case Pan:
		m.Scene.Viewport.Move(ev.Client.Delta.Mul(-1 / m.Scene.Viewport.Zoom()))
	case Zoom:
		factor := float32(1) - ev.Client.Delta.Y*0.005
		m.Scene.Viewport.ZoomToward(m.Scene.Viewport.Zoom()*factor, ev.Client.Position)
	case Select:
		if m.selectDragging {
			m.dragSelected(ev)
			return
		}
		rect := geom.Rect{Min: m.origin, Max: ev.Scene.Position}.Canon()
		m.Scene.Selection.TempSelect(m.Scene.EntitiesIn(rect, false))
	case DirectSelect:
		m.dragSelected(ev)
	case Pen:
		m.dragPenHandle(ev)
	case Pencil:
		smoothed := m.pencilSmoother.Update(ev.Scene.Position, ev.Time)
		m.pencilSamples = append(m.pencilSamples, smoothed)
	}
}

func (m *Machine) endGesture(tool Kind, ev PointerEvent) {
	switch tool {
	case Select, DirectSelect:
		m.Scene.Selection.Sync()
		m.selectDragging = false
	case Pencil:
		m.commitPencil()
	}
	m.Scene.History.EndBatch()
}

func (m *Machine) cancelBatch() {
	m.Scene.History.CancelOpenBatch()
}

// updateHover tracks the pointer's current target without a gesture in
// progress. DirectSelect runs the full vertex/handle/segment/element
// cascade; every other tool only cares about whole-entity hover.
func (m *Machine) updateHover(ev PointerEvent) {
	if m.Active() == DirectSelect {
		id, kind, index := m.hitTestScene(ev.Scene.Position)
		if kind == HoverNone {
			m.hover = Hover{Kind: HoverNone}
			return
		}
		h := Hover{Kind: kind}
		copy(h.Entity[:], id[:])
		switch kind {
		case HoverVertex:
			h.Vertex = index
		case HoverHandle:
			h.Handle = index
		}
		m.hover = h
		return
	}
	id, ok := m.Scene.EntityAt(ev.Scene.Position, false, HitThreshold)
	if !ok {
		m.hover = Hover{Kind: HoverNone}
		return
	}
	m.hover = Hover{Kind: HoverElement}
	copy(m.hover.Entity[:], id[:])
}

// captureDragOrigins snapshots the pre-drag state of the current
// selection: a whole-entity transform for plain SelectionEntity entries,
// or the local-space position of each addressed vertex/handle for
// SelectionElement entries (spec.md §4.3's vertex/handle dragging).
func (m *Machine) captureDragOrigins() {
	m.dragOriginal = make(map[uuid.UUID]geom.Affine2D)
	m.dragPoints = m.dragPoints[:0]
	for _, id := range m.Scene.Selection.Entities() {
		entry, ok := m.Scene.Selection.Entry(id)
		e := m.Scene.Entity(id)
		if ok && entry.Type == scene.SelectionElement {
			p, hasPath := e.Path()
			if !hasPath {
				continue
			}
			for idx := range entry.ChildIndices {
				pt, ok := p.HandlePoint(idx)
				if !ok {
					continue
				}
				m.dragPoints = append(m.dragPoints, pointOrigin{entity: id, index: idx, pos: pt})
			}
			continue
		}
		m.dragOriginal[id] = e.Transform().Matrix
	}
}

// dragSelected applies the gesture's total displacement to every
// captured drag origin: whole entities get a new absolute transform,
// individual vertices/handles get translated to an absolute local-space
// target recomputed from their pre-drag position every event (so the
// result doesn't drift across repeated PointerMove events).
func (m *Machine) dragSelected(ev PointerEvent) {
	delta := ev.Scene.Position.Sub(m.origin)
	for id, original := range m.dragOriginal {
		e := m.Scene.Entity(id)
		e.SetTransform(scene.TransformComponent{Matrix: original.Mul(geom.Identity.Offset(delta))})
	}
	if len(m.dragPoints) == 0 {
		return
	}
	byEntity := make(map[uuid.UUID]*path.Path)
	for _, po := range m.dragPoints {
		p, ok := byEntity[po.entity]
		if !ok {
			e := m.Scene.Entity(po.entity)
			orig, hasPath := e.Path()
			if !hasPath {
				continue
			}
			p = orig.Clone()
			byEntity[po.entity] = p
		}
		localDelta := m.Scene.Entity(po.entity).Transform().Matrix.Invert().TransformVector(delta)
		target := po.pos.Add(localDelta)
		cur, ok := p.HandlePoint(po.index)
		if !ok {
			continue
		}
		p.TranslateHandle(po.index, target.Sub(cur))
	}
	for id, p := range byEntity {
		m.Scene.Entity(id).SetPath(p)
	}
}

// beginPenVertex places the next Pen-tool anchor: the first click starts
// a new element, later clicks either close the path (when placed back
// on the first vertex) or extend it, upgrading the segment to a cubic
// when the previous anchor left a dangling out-handle behind.
func (m *Machine) beginPenVertex(ev PointerEvent) {
	pos := ev.Scene.Position
	if m.penPath == nil {
		m.penPath = path.New()
		m.penPath.MoveTo(pos)
		e := m.Scene.CreateElement(m.penPath)
		m.penEntity = e.ID()
		return
	}

	if first, err := m.penPath.Point(0); err == nil && m.penPath.PointCount() >= 2 {
		if first.Distance(pos) <= HitThreshold/m.Scene.Viewport.Zoom() {
			m.closePenPath()
			return
		}
	}

	if out, hasOut := m.penPath.OutHandle(); hasOut {
		m.penPath.CubicTo(out, pos, pos)
		m.penPath.SetOutHandle(geom.Vec2{}, false)
	} else {
		m.penPath.LineTo(pos)
	}
	m.Scene.Entity(m.penEntity).SetPath(m.penPath)
}

// dragPenHandle authors the out-handle of the anchor just placed by
// beginPenVertex while the pointer is still down, mirroring it into the
// incoming handle of the segment that already ends at that anchor unless
// alt is held (asymmetric handles). Shift snaps the drag angle.
func (m *Machine) dragPenHandle(ev PointerEvent) {
	if m.penPath == nil || m.penPath.PointCount() == 0 {
		return
	}
	delta := ev.Scene.Position.Sub(m.origin)
	if ev.Modifiers.Has(ModShift) {
		delta = snapToAngle(delta, PenHandleAngleStep)
	}
	out := m.origin.Add(delta)
	m.penPath.SetOutHandle(out, true)

	if ev.Modifiers.Has(ModAlt) {
		m.Scene.Entity(m.penEntity).SetPath(m.penPath)
		return
	}

	reflected := m.origin.Sub(delta)
	lastIdx := m.penPath.PointCount() - 1
	node, err := m.penPath.NodeAt(lastIdx)
	if err != nil || node.InCommand == path.NoIndex {
		m.Scene.Entity(m.penEntity).SetPath(m.penPath)
		return
	}
	if node.InHandleIndex == path.NoIndex {
		if err := m.penPath.ToCubic(node.InCommand); err != nil {
			m.Scene.Entity(m.penEntity).SetPath(m.penPath)
			return
		}
		lastIdx = m.penPath.PointCount() - 1
		node, err = m.penPath.NodeAt(lastIdx)
	}
	if err == nil && node.InHandleIndex >= 0 {
		if cur, ok := m.penPath.HandlePoint(node.InHandleIndex); ok {
			m.penPath.TranslateHandle(node.InHandleIndex, reflected.Sub(cur))
		}
	}
	m.Scene.Entity(m.penEntity).SetPath(m.penPath)
}

func (m *Machine) closePenPath() {
	m.penPath.Close()
	m.Scene.Entity(m.penEntity).SetPath(m.penPath)
	m.penPath = nil
	m.penEntity = uuid.Nil
}

// snapToAngle rounds v's direction to the nearest multiple of step,
// preserving its length.
func snapToAngle(v geom.Vec2, step float32) geom.Vec2 {
	length := v.Len()
	if length == 0 {
		return v
	}
	snapped := float32(math.Round(float64(v.Angle()/step))) * step
	return geom.Pt(length, 0).Rotated(snapped)
}

// commitPencil fits the recorded, already wobble-smoothed stroke
// samples into a cubic path, per spec.md's "smoothed at commit" Pencil
// description, grounded on the curve-fitting pass in path.FitCubics.
func (m *Machine) commitPencil() {
	defer func() { m.pencilSamples = nil }()
	if len(m.pencilSamples) < 2 {
		return
	}
	tolerance := PencilFitTolerance / maxf32(m.Scene.Viewport.Zoom(), 0.0001)
	cubics := path.FitCubics(m.pencilSamples, tolerance)
	if len(cubics) == 0 {
		return
	}
	p := path.New()
	p.MoveTo(cubics[0].P0)
	for _, c := range cubics {
		p.CubicTo(c.P1, c.P2, c.P3)
	}
	m.Scene.CreateElement(p)
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
