package schema

// LibraryWatchlistTable represents the 'library.watchlist' table
type LibraryWatchlistTable struct {
	Table   string
	UserID  string
	MovieID string
	SavedAt string
}

// LibraryWatchlist is the schema definition for library.watchlist
var LibraryWatchlist = LibraryWatchlistTable{
	Table:   "library.watchlist",
	UserID:  "userid",
	MovieID: "movieid",
	SavedAt: "savedat",
}
