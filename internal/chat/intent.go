// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

// Package chat implements the conversational session engine: keyword
// intent detection, context-aware canned replies, and the orchestration
// that ties them to the session store.
package chat

import "strings"

// Intent is the closed category describing the purpose of a user message.
type Intent string

const (
	IntentAboutFarmChainX Intent = "about_farmchainx"
	IntentMarketInfo      Intent = "market_info"
	IntentCropDisease     Intent = "crop_disease"
	IntentIrrigation      Intent = "irrigation"
	IntentFertilizer      Intent = "fertilizer"
	IntentGreeting        Intent = "greeting"
	IntentGratitude       Intent = "gratitude"
	IntentGeneral         Intent = "general"
)

// intentRule pairs a predicate with the intent it selects. Rules are
// evaluated top to bottom and the first match wins; they are not
// mutually exclusive, so the order is part of the contract.
type intentRule struct {
	match  func(text string) bool
	intent Intent
}

var intentRules = []intentRule{
	{
		match: func(text string) bool {
			return strings.Contains(text, "farmchainx") &&
				(strings.Contains(text, "what is") || strings.Contains(text, "about"))
		},
		intent: IntentAboutFarmChainX,
	},
	{match: containsAny("price", "cost", "rate", "sell", "market"), intent: IntentMarketInfo},
	{match: containsAny("disease", "pest", "infection", "spot", "leaf"), intent: IntentCropDisease},
	{match: containsAny("water", "irrigation", "rain", "drought"), intent: IntentIrrigation},
	{match: containsAny("fertilizer", "nutrient", "manure", "urea"), intent: IntentFertilizer},
	{match: containsAny("hello", "hi", "hey"), intent: IntentGreeting},
	{match: containsAny("thanks", "thank you"), intent: IntentGratitude},
}

// Classify maps a raw message to exactly one intent via case-insensitive
// substring matching. It never fails; unmatched messages are general.
func Classify(message string) Intent {
	text := strings.ToLower(message)
	for _, rule := range intentRules {
		if rule.match(text) {
			return rule.intent
		}
	}
	return IntentGeneral
}

func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}
