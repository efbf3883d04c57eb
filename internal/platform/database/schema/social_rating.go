package schema

// SocialRatingTable represents the 'social.rating' table
type SocialRatingTable struct {
	Table     string
	UserID    string
	MovieID   string
	Score     string
	CreatedAt string
	UpdatedAt string
}

// SocialRating is the schema definition for social.rating
var SocialRating = SocialRatingTable{
	Table:     "social.rating",
	UserID:    "userid",
	MovieID:   "movieid",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
