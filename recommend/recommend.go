/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package recommend generates recipe suggestions for nutrients that came
// back outside the normal band.
package recommend

import "context"

// Preferences constrains the generated recipes.
type Preferences struct {
	Dietary   []string `json:"dietaryPreferences"`
	Allergies []string `json:"allergies"`
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe is a generated recipe recommendation.
type Recipe struct {
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	Instructions        string       `json:"instructions"`
	Ingredients         []Ingredient `json:"ingredients"`
	CookTime            int          `json:"cookTime"`
	Servings            int          `json:"servings"`
	NutritionalBenefits []string     `json:"nutritionalBenefits"`
	TargetNutrients     []string     `json:"targetNutrients"`
	DietaryTags         []string     `json:"dietaryTags"`
}

// Recommender produces recipes targeting the given nutrient names.
type Recommender interface {
	Recommend(ctx context.Context, nutrients []string, prefs Preferences) ([]Recipe, error)
}
