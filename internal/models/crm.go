package models

// NoteRecord is one CRM note attached to a candidate record.
type NoteRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CRMDocument describes a file linked to a candidate record. Content is
// fetched separately as binary.
type CRMDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FileType string `json:"file_type"`
}
