package domain

// DietTag is a dietary restriction a guest can select
type DietTag string

const (
	DietNone       DietTag = "None"
	DietVegan      DietTag = "Vegan"
	DietHalal      DietTag = "Halal"
	DietGlutenFree DietTag = "Gluten-Free"
	DietNutFree    DietTag = "Nut-Free"
	DietDairyFree  DietTag = "Dairy-Free"
)

// DietOptions lists the selectable dietary restrictions in display order
var DietOptions = []DietTag{
	DietNone,
	DietVegan,
	DietHalal,
	DietGlutenFree,
	DietNutFree,
	DietDairyFree,
}

// IsValid checks if the tag is one of DietOptions
func (d DietTag) IsValid() bool {
	for _, opt := range DietOptions {
		if d == opt {
			return true
		}
	}
	return false
}

// Bottle is the category of bottle a guest brings
type Bottle string

const (
	BottleRed          Bottle = "Red"
	BottleWhite        Bottle = "White"
	BottleBubbles      Bottle = "Bubbles"
	BottleRose         Bottle = "Rosé"
	BottleNonAlcoholic Bottle = "Non-Alcoholic"
)

// BottleOptions lists the bottle categories; the first one is the default
var BottleOptions = []Bottle{
	BottleRed,
	BottleWhite,
	BottleBubbles,
	BottleRose,
	BottleNonAlcoholic,
}

// DefaultBottle is used when a guest does not pick one
const DefaultBottle = BottleRed

// IsValid checks if the bottle is one of BottleOptions
func (b Bottle) IsValid() bool {
	for _, opt := range BottleOptions {
		if b == opt {
			return true
		}
	}
	return false
}

// Theme selects the look of the invitation
type Theme string

const (
	ThemeClassic     Theme = "classic"
	ThemeCandlelight Theme = "candlelight"
	ThemeGarden      Theme = "garden"
	ThemeMidnight    Theme = "midnight"
)

// ThemeOptions lists the available themes
var ThemeOptions = []Theme{
	ThemeClassic,
	ThemeCandlelight,
	ThemeGarden,
	ThemeMidnight,
}

// IsValid checks if the theme is one of ThemeOptions
func (t Theme) IsValid() bool {
	for _, opt := range ThemeOptions {
		if t == opt {
			return true
		}
	}
	return false
}

// MaxSpiceLevel is the hottest spice level
const MaxSpiceLevel = 3
