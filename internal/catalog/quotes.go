package catalog

import "time"

var quotes = []string{
	"Arise, Hunter.",
	"The weak exist to be dominated.",
	"I alone level up.",
	"Only the strongest survive the dungeon.",
	"Every rep brings you closer to S-Rank.",
	"Pain is temporary. Glory is eternal.",
	"The System has chosen you.",
	"Shadows obey only the powerful.",
	"You are the weapon. Train accordingly.",
	"Doubt kills more than failure.",
	"Become the monster they fear.",
	"Your body is your most powerful skill.",
	"No days off in the Shadow Realm.",
	"One more set. One more rank.",
	"The quest log never sleeps.",
}

// QuoteFor returns the motivational line shown on the given weekday.
func QuoteFor(day time.Weekday) string {
	return quotes[int(day)%len(quotes)]
}
