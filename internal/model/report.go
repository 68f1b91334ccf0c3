package model

// FileVerdict is the outcome of checking one configuration file.
type FileVerdict struct {
	Path     string
	Fixtures int
	Err      error
}

// OK reports whether the file passed.
func (v FileVerdict) OK() bool {
	return v.Err == nil
}

// FixtureSummary describes one configured fixture item for listings.
type FixtureSummary struct {
	File        string
	ID          FixtureItemID
	Constructor string
	Members     int
	Parameters  int
}
