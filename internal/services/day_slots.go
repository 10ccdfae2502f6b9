package services

import (
	"regexp"
	"strings"

	"kairos/internal/models/domain_models"
)

// slotOverride forces a slot when the place name carries a stronger signal
// than its category (a "Sunset Point" museum is still an evening visit).
type slotOverride struct {
	pattern *regexp.Regexp
	slot    domain_models.DaySlot
}

var slotOverrides = []slotOverride{
	{regexp.MustCompile(`(?i)\bsunrise\b`), domain_models.SlotMorning},
	{regexp.MustCompile(`(?i)\bsun\s?set\b`), domain_models.SlotEvening},
	{regexp.MustCompile(`(?i)\bnight\b`), domain_models.SlotEvening},
	{regexp.MustCompile(`(?i)\b(breakfast|brunch)\b`), domain_models.SlotMorning},
}

// categorySlots holds the default slot per category. Heavy physical visits
// go in the morning before the heat, sights that depend on light go in the
// evening, indoor visits fill the midday lull.
var categorySlots = map[string]domain_models.DaySlot{
	domain_models.CategoryWaterfall: domain_models.SlotMorning,
	domain_models.CategoryPeak:      domain_models.SlotMorning,
	domain_models.CategoryTemple:    domain_models.SlotMorning,
	domain_models.CategoryIsland:    domain_models.SlotMorning,
	domain_models.CategoryMuseum:    domain_models.SlotMidday,
	domain_models.CategoryPalace:    domain_models.SlotMidday,
	domain_models.CategoryFort:      domain_models.SlotMidday,
	domain_models.CategoryBeach:     domain_models.SlotAfternoon,
	domain_models.CategoryPark:      domain_models.SlotAfternoon,
	domain_models.CategoryViewpoint: domain_models.SlotEvening,
	domain_models.CategoryNightlife: domain_models.SlotEvening,
	domain_models.CategoryBar:       domain_models.SlotEvening,
	domain_models.CategoryCafe:      domain_models.SlotMorning,
}

var subcategorySlots = map[string]domain_models.DaySlot{
	"trek":     domain_models.SlotMorning,
	"hike":     domain_models.SlotMorning,
	"kayaking": domain_models.SlotMorning,
	"rafting":  domain_models.SlotMorning,
	"cruise":   domain_models.SlotEvening,
}

func assignDaySlot(name, category, subcategory string) domain_models.DaySlot {
	for _, ov := range slotOverrides {
		if ov.pattern.MatchString(name) {
			return ov.slot
		}
	}
	if subcategory != "" {
		if slot, ok := subcategorySlots[strings.ToLower(subcategory)]; ok {
			return slot
		}
	}
	if slot, ok := categorySlots[category]; ok {
		return slot
	}
	return domain_models.SlotAnytime
}
