package portal

// frameBudget is the render-step budget shared by every recursion path of
// one frame. Steps are claimed in order, so the claimed step is also the
// pool index.
type frameBudget struct {
	used int
	max  int
}

// claim returns the next step index, or false when the budget is spent.
func (b *frameBudget) claim() (int, bool) {
	if b.used >= b.max {
		return 0, false
	}
	i := b.used
	b.used++
	return i, true
}

func (b *frameBudget) exhausted() bool { return b.used >= b.max }

// StepRecord describes one render step of a frame.
type StepRecord struct {
	Index  int    // pool index
	Depth  int    // recursion depth
	Portal string // portal looked through
	Tree   string // path of portals from the main camera, e.g. "A > B"
}

// FrameStats summarizes the last RenderPortals call.
type FrameStats struct {
	// Steps is the number of render steps used.
	Steps int
	// Deepest is the deepest depth rendered, or -1 when nothing was.
	Deepest int
	// Truncated counts recursions refused by the depth or step budget.
	Truncated int
	// TopLevel lists the portals rendered from the main camera, in order.
	TopLevel []string
	// Records lists every step in pool index order.
	Records []StepRecord
}

func (s *FrameStats) record(rec StepRecord) {
	s.Records = append(s.Records, rec)
	s.Steps = len(s.Records)
	if rec.Depth > s.Deepest {
		s.Deepest = rec.Depth
	}
}
