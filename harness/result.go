// Package harness drives the per-algorithm benchmark passes: one
// plaintext per data length, fresh auxiliary parameters per trial, one
// measured encrypt and one measured decrypt per trial.
package harness

// ResultSet accumulates one algorithm's samples as three index-aligned
// sequences: entry i across all three describes one trial. Appends
// happen only as complete triples, so the sequences are always the same
// length.
type ResultSet struct {
	Algorithm        string
	DataLengths      []int
	EncryptionMemory []float64
	DecryptionMemory []float64
}

// NewResultSet creates an empty ResultSet for the named algorithm.
func NewResultSet(algorithm string) *ResultSet {
	return &ResultSet{Algorithm: algorithm}
}

// Append records one trial as an atomic triple.
func (rs *ResultSet) Append(dataLength int, encMB, decMB float64) {
	rs.DataLengths = append(rs.DataLengths, dataLength)
	rs.EncryptionMemory = append(rs.EncryptionMemory, encMB)
	rs.DecryptionMemory = append(rs.DecryptionMemory, decMB)
}

// Len returns the number of recorded trials.
func (rs *ResultSet) Len() int {
	return len(rs.DataLengths)
}

// AggregateTable collects ResultSets across algorithm passes within one
// run, preserving the order algorithms were first merged in. It holds
// no global state: created empty at run start, consumed once at run
// end.
type AggregateTable struct {
	order []string
	sets  map[string]*ResultSet
}

// NewAggregateTable creates an empty table.
func NewAggregateTable() *AggregateTable {
	return &AggregateTable{
		sets: make(map[string]*ResultSet),
	}
}

// Merge folds rs into the table. Samples for an algorithm already
// present are appended after its existing ones.
func (t *AggregateTable) Merge(rs *ResultSet) {
	existing, ok := t.sets[rs.Algorithm]
	if !ok {
		existing = NewResultSet(rs.Algorithm)
		t.sets[rs.Algorithm] = existing
		t.order = append(t.order, rs.Algorithm)
	}

	for i := range rs.DataLengths {
		existing.Append(rs.DataLengths[i], rs.EncryptionMemory[i], rs.DecryptionMemory[i])
	}
}

// Sets returns the merged ResultSets in first-merge order.
func (t *AggregateTable) Sets() []*ResultSet {
	sets := make([]*ResultSet, 0, len(t.order))
	for _, name := range t.order {
		sets = append(sets, t.sets[name])
	}

	return sets
}

// Len returns the number of algorithms in the table.
func (t *AggregateTable) Len() int {
	return len(t.order)
}
