package domain

// OutfitID identifies an outfit of the catalog.
// The preference tracker treats it as opaque and never checks it against the catalog.
type OutfitID int

// Outfit is an entry of the static reference catalog.
type Outfit struct {
	ID          OutfitID `json:"id"`
	ImageRef    string   `json:"image_ref"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var catalog = []Outfit{
	{
		ID:          1,
		ImageRef:    "https://images.unsplash.com/photo-1539109136881-3be0616acf4b?auto=format&fit=crop&w=687&q=80",
		Name:        "Casual Chic Ensemble",
		Description: "Perfect for weekend brunches and casual meetups.",
	},
	{
		ID:          2,
		ImageRef:    "https://images.unsplash.com/photo-1553754538-466add009c05?auto=format&fit=crop&w=686&q=80",
		Name:        "Business Casual",
		Description: "Professional yet comfortable for the modern workplace.",
	},
	{
		ID:          3,
		ImageRef:    "https://images.unsplash.com/photo-1566677914817-56426959ae9c?auto=format&fit=crop&w=686&q=80",
		Name:        "Weekend Relaxed",
		Description: "Effortless style for your days off.",
	},
	{
		ID:          4,
		ImageRef:    "https://images.unsplash.com/photo-1536766820879-059fec98ec0a?auto=format&fit=crop&w=687&q=80",
		Name:        "Evening Elegance",
		Description: "Sophisticated attire for special occasions.",
	},
	{
		ID:          5,
		ImageRef:    "https://images.unsplash.com/photo-1555069519-127aadedf1ee?auto=format&fit=crop&w=687&q=80",
		Name:        "Athleisure Style",
		Description: "Sporty yet stylish for active days.",
	},
	{
		ID:          6,
		ImageRef:    "https://images.unsplash.com/photo-1554412933-514a83d2f3c8?auto=format&fit=crop&w=672&q=80",
		Name:        "Minimalist Modern",
		Description: "Clean lines and neutral tones for a timeless look.",
	},
}

// Catalog returns a copy of the outfit catalog.
func Catalog() []Outfit {
	out := make([]Outfit, len(catalog))
	copy(out, catalog)
	return out
}

// FindOutfit looks up an outfit by ID.
func FindOutfit(id OutfitID) (Outfit, bool) {
	for _, o := range catalog {
		if o.ID == id {
			return o, true
		}
	}
	return Outfit{}, false
}
