/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package recommend

import (
	"fmt"
	"strings"

	"github.com/humaidq/nutrimark/nutrient"
)

const systemPrompt = `You are a nutrition expert and chef specializing in therapeutic cooking.
Create healthy, practical recipes that address nutrient levels outside the normal range while considering:
- Nutrient bioavailability
- Complementary ingredients that enhance absorption
- Food combinations that may inhibit absorption
- Cooking methods that preserve nutrients`

const responseShape = `{
  "recipes": [
    {
      "title": "Recipe Name",
      "description": "Brief description highlighting nutrient benefits",
      "instructions": "Step-by-step cooking instructions",
      "ingredients": [{"name": "ingredient name", "amount": "1", "unit": "cup"}],
      "cookTime": 30,
      "servings": 4,
      "nutritionalBenefits": ["High in iron"],
      "targetNutrients": ["Iron"],
      "dietaryTags": ["vegetarian"]
    }
  ]
}`

// foodSources is keyed by normalized nutrient name.
var foodSources = map[string][]string{
	"vitamin d":   {"fatty fish", "egg yolks", "fortified dairy", "mushrooms"},
	"vitamin b12": {"lean meats", "fish", "eggs", "dairy products", "fortified cereals"},
	"iron":        {"red meat", "leafy greens", "legumes", "fortified cereals"},
	"ferritin":    {"red meat", "leafy greens", "legumes", "fortified cereals"},
	"calcium":     {"dairy products", "leafy greens", "fortified plant milks", "tofu"},
	"magnesium":   {"nuts", "seeds", "whole grains", "leafy greens"},
	"zinc":        {"oysters", "meat", "legumes", "nuts", "seeds"},
	"folate":      {"leafy greens", "legumes", "citrus fruits", "fortified grains"},
	"vitamin c":   {"citrus fruits", "berries", "bell peppers", "broccoli"},
}

// FoodSources returns common dietary sources of a nutrient.
func FoodSources(name string) []string {
	if sources, ok := foodSources[nutrient.NormalizeName(name)]; ok {
		return sources
	}

	return []string{"varied whole foods"}
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "None specified"
	}

	return strings.Join(values, ", ")
}

func buildUserPrompt(nutrients []string, prefs Preferences, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d personalized recipe recommendations for these nutrients:\n", count)

	for _, name := range nutrients {
		fmt.Fprintf(&b, "- %s (common sources: %s)\n", name, strings.Join(FoodSources(name), ", "))
	}

	fmt.Fprintf(&b, "\nRequirements:\n- Dietary preferences: %s\n- Allergies to avoid: %s\n",
		orNone(prefs.Dietary), orNone(prefs.Allergies))

	b.WriteString("\nEvery recipe must list at least one of the nutrients above in targetNutrients.\n")
	b.WriteString("\nReturn JSON in this format:\n")
	b.WriteString(responseShape)

	return b.String()
}
