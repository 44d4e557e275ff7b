package engine

// PipelineStatistics mirrors the per-run pipeline counter block. The
// counters are synthesized from the recorded work rather than read from
// a GPU query, so only the fields the recorder can account for are
// populated; the rest stay zero.
type PipelineStatistics struct {
	IAVertices    uint64
	IAPrimitives  uint64
	VSInvocations uint64
	GSInvocations uint64
	GSPrimitives  uint64
	CInvocations  uint64
	CPrimitives   uint64
	PSInvocations uint64
	HSInvocations uint64
	DSInvocations uint64
	CSInvocations uint64
}

// PipelineStats returns the statistics accumulated by the last
// RunCommandList. The zero value is returned before any run.
func (e *Engine) PipelineStats() PipelineStatistics {
	return e.stats
}

// recordDispatch accounts one compute dispatch. Thread-group dimensions
// are known; per-group thread counts live in the shader, so the counter
// tracks groups.
func (e *Engine) recordDispatch(x, y, z uint32) {
	e.stats.CSInvocations += uint64(x) * uint64(y) * uint64(z)
}

// recordDraw accounts one non-indexed draw of a triangle list.
func (e *Engine) recordDraw(vertexCount, instanceCount uint32) {
	verts := uint64(vertexCount) * uint64(instanceCount)
	e.stats.IAVertices += verts
	e.stats.VSInvocations += verts
	e.stats.IAPrimitives += verts / 3
	e.stats.CInvocations += verts / 3
	e.stats.CPrimitives += verts / 3
}
