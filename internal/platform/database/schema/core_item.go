package schema

// CoreItemTable represents the 'core.item' table
type CoreItemTable struct {
	Table        string
	ID           string
	Title        string
	Labels       string
	QualityScore string
	LoadPosition string
	CreatedAt    string
	DeletedAt    string
}

// CoreItem is the schema definition for core.item
var CoreItem = CoreItemTable{
	Table:        "core.item",
	ID:           "id",
	Title:        "title",
	Labels:       "labels",
	QualityScore: "qualityscore",
	LoadPosition: "loadposition",
	CreatedAt:    "createdat",
	DeletedAt:    "deletedat",
}
