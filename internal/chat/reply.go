// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package chat

import (
	"strings"

	"github.com/cropsense-dev/cropsense/internal/store"
)

// Canned reply texts. The wording is part of the external contract the
// front-ends display verbatim.
const (
	replyGreeting = "Hello , Welcome to FarmChainX"

	replyAboutFarmChainX = "FarmChainX is a crop traceability platform used to track produce " +
		"end-to-end across the supply chain."

	replyGratitude = "You’re welcome! Let me know if you have any more questions."

	replyMarketInfo = "Market prices can vary based on location and season. " +
		"For accurate rates, please check your local mandi or government agriculture portal. " +
		"If you tell me the crop and your region, I can give more specific guidance."

	replyCropDisease = "To assess crop diseases, please closely inspect leaves and stems for spots, discoloration, " +
		"or unusual patterns. If possible, upload a clear image via the farmer crop upload section " +
		"so that the AI score and health analysis can help you decide the next steps."

	replyIrrigation = "For irrigation, follow recommended schedules based on your crop type, soil, and climate. " +
		"Avoid over-watering to prevent root rot, and use soil moisture checks where possible."

	replyFertilizer = "Fertilizer requirements depend on soil tests and crop stage. " +
		"Use balanced NPK based on recommendations, and avoid overuse to protect soil health."

	replyScoreExplanation = "The AI score is a value between 0 and 100 that estimates crop quality or health. " +
		"Higher scores mean healthier crops. It is calculated from visual features of the uploaded image."

	replyFallback = "I understand your question, but I don’t have a specific answer for that yet. " +
		"You can ask me about crop health, market prices, irrigation, or fertilizer recommendations."
)

// Generate maps an intent to its reply. Only the general intent inspects
// the session history: a prior user message mentioning "score" selects
// the score explanation instead of the generic fallback. Deterministic;
// no external calls.
func Generate(intent Intent, _ string, history []store.Message) string {
	switch intent {
	case IntentGreeting:
		return replyGreeting
	case IntentAboutFarmChainX:
		return replyAboutFarmChainX
	case IntentGratitude:
		return replyGratitude
	case IntentMarketInfo:
		return replyMarketInfo
	case IntentCropDisease:
		return replyCropDisease
	case IntentIrrigation:
		return replyIrrigation
	case IntentFertilizer:
		return replyFertilizer
	}

	for _, msg := range history {
		if msg.Role == store.MessageRoleUser && strings.Contains(strings.ToLower(msg.Content), "score") {
			return replyScoreExplanation
		}
	}
	return replyFallback
}
