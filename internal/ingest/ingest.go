package ingest

// Document is one discovered input PDF.
type Document struct {
	Path    string // path as found under the input directory
	Name    string // file name, e.g. "acetone.pdf"
	Stem    string // file name without extension
	Size    int64
	HashHex string // sha256 of the content; empty when Err is set
	Err     string // hashing/stat failure; the document is still processed
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Hidden  uint32
	Failed  uint32
}
