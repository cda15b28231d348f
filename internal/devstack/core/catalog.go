// Package core serves the devstack's reference data and user details.
package core

import (
	"strings"

	"github.com/myreport/reportcycle/internal/client/api"
)

var genderTypes = []api.GenderType{
	{GenderID: 3, GenderName: "Prefer not to say", SortOrder: 3},
	{GenderID: 1, GenderName: "Female", SortOrder: 1},
	{GenderID: 2, GenderName: "Male", SortOrder: 2},
}

// GenderTypes returns the gender reference list. Order is left to callers.
func GenderTypes() []api.GenderType {
	out := make([]api.GenderType, len(genderTypes))
	copy(out, genderTypes)
	return out
}

type category struct {
	api.TicketCategory
	keywords []string
}

var categories = []category{
	{api.TicketCategory{TicketCategoryID: 1, TicketCategoryName: "Roads and potholes"}, []string{"road", "pothole", "street", "asphalt", "crack"}},
	{api.TicketCategory{TicketCategoryID: 2, TicketCategoryName: "Street lighting"}, []string{"light", "lamp", "dark", "bulb"}},
	{api.TicketCategory{TicketCategoryID: 3, TicketCategoryName: "Waste and litter"}, []string{"litter", "rubbish", "trash", "bin", "garbage", "dump"}},
	{api.TicketCategory{TicketCategoryID: 4, TicketCategoryName: "Graffiti"}, []string{"graffiti", "tag", "paint"}},
	{api.TicketCategory{TicketCategoryID: 5, TicketCategoryName: "Parks and trees"}, []string{"park", "tree", "grass", "bench", "playground"}},
	{api.TicketCategory{TicketCategoryID: 6, TicketCategoryName: "Water and drainage"}, []string{"water", "flood", "drain", "leak", "sewer"}},
}

// SuggestCategories returns the categories whose keywords occur in title.
// A title matching nothing gets every category.
func SuggestCategories(title string) []api.TicketCategory {
	t := strings.ToLower(title)

	var out []api.TicketCategory
	for _, c := range categories {
		for _, k := range c.keywords {
			if strings.Contains(t, k) {
				out = append(out, c.TicketCategory)
				break
			}
		}
	}
	if len(out) == 0 {
		for _, c := range categories {
			out = append(out, c.TicketCategory)
		}
	}
	return out
}
