package schema

// LibraryViewHistoryTable represents the 'library.viewhistory' table
type LibraryViewHistoryTable struct {
	Table    string
	UserID   string
	MovieID  string
	ViewedAt string
}

// LibraryViewHistory is the schema definition for library.viewhistory
var LibraryViewHistory = LibraryViewHistoryTable{
	Table:    "library.viewhistory",
	UserID:   "userid",
	MovieID:  "movieid",
	ViewedAt: "viewedat",
}
