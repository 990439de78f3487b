/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/humaidq/nutrimark/nutrient"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	defaultRecipeCount = 3
	maxTokens          = 2048
)

// ChatCompleter is the part of the OpenAI client the recommender needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIRecommender asks an OpenAI chat model for recipes.
type OpenAIRecommender struct {
	client ChatCompleter
	model  string
	count  int
}

// NewOpenAIRecommender returns a recommender backed by the OpenAI API.
func NewOpenAIRecommender(apiKey, model string) (*OpenAIRecommender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	return NewRecommenderWithClient(openai.NewClient(apiKey), model), nil
}

// NewRecommenderWithClient returns a recommender using client.
func NewRecommenderWithClient(client ChatCompleter, model string) *OpenAIRecommender {
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIRecommender{client: client, model: model, count: defaultRecipeCount}
}

type recipesResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// Recommend returns recipes for nutrients. An empty list needs no call and
// yields no recipes.
func (r *OpenAIRecommender) Recommend(ctx context.Context, nutrients []string, prefs Preferences) ([]Recipe, error) {
	if len(nutrients) == 0 {
		return []Recipe{}, nil
	}

	req := openai.ChatCompletionRequest{
		Model: r.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(nutrients, prefs, r.count)},
		},
		Temperature: 0.3,
	}

	// Reasoning models take MaxCompletionTokens instead of MaxTokens.
	if isReasoningModel(r.model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	logger.Debug("Requesting recipe recommendations", "model", r.model, "nutrients", len(nutrients))

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	recipes, err := parseRecipes(resp.Choices[0].Message.Content, nutrients)
	if err != nil {
		logger.Warn("Rejected recipe recommendations", "model", r.model, "error", err)
		return nil, err
	}

	logger.Info("Generated recipe recommendations", "model", r.model, "recipes", len(recipes))

	return recipes, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}

	return false
}

// parseRecipes decodes a completion and keeps it only if every recipe is
// complete and targets at least one requested nutrient.
func parseRecipes(content string, nutrients []string) ([]Recipe, error) {
	var parsed recipesResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if parsed.Recipes == nil {
		return nil, ErrInvalidResponse
	}

	wanted := make(map[string]bool, len(nutrients))
	for _, n := range nutrients {
		wanted[nutrient.NormalizeName(n)] = true
	}

	for i, recipe := range parsed.Recipes {
		if strings.TrimSpace(recipe.Title) == "" || strings.TrimSpace(recipe.Instructions) == "" || len(recipe.Ingredients) == 0 {
			return nil, fmt.Errorf("%w: recipe %d is incomplete", ErrInvalidRecipe, i)
		}

		targeted := false

		for _, t := range recipe.TargetNutrients {
			if wanted[nutrient.NormalizeName(t)] {
				targeted = true
				break
			}
		}

		if !targeted {
			return nil, fmt.Errorf("%w: %s", ErrUntargetedRecipes, recipe.Title)
		}
	}

	return parsed.Recipes, nil
}
