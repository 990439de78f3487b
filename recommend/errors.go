/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package recommend

import "errors"

var (
	ErrAPIKeyRequired    = errors.New("OpenAI API key is required")
	ErrEmptyCompletion   = errors.New("no recipe recommendations received")
	ErrInvalidResponse   = errors.New("invalid recipe recommendations format")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrUntargetedRecipes = errors.New("recipe does not target any requested nutrient")
)
