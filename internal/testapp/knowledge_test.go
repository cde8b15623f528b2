// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuickAnswer(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains string
	}{
		{
			name:     "hardieplank install",
			query:    "How do I install HardiePlank siding?",
			contains: "HardiePlank installation key steps",
		},
		{
			name:     "hardieplank tools",
			query:    "What tools do I need for HardiePlank?",
			contains: "Circular saw with carbide blade",
		},
		{
			name:     "hardieplank general",
			query:    "Tell me about HardiePlank",
			contains: "fiber cement siding",
		},
		{
			name:     "hardietrim",
			query:    "Tell me about HardieTrim boards",
			contains: "HardieTrim",
		},
		{
			name:     "general install",
			query:    "What are the install guidelines?",
			contains: "General James Hardie installation guidelines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := QuickAnswer(tt.query)
			assert.Contains(t, answer, tt.contains)
		})
	}
}

func TestQuickAnswerIsCaseInsensitive(t *testing.T) {
	assert.NotEmpty(t, QuickAnswer("TELL ME ABOUT HARDIETRIM"))
}

func TestQuickAnswerUnknownQueryIsEmpty(t *testing.T) {
	assert.Empty(t, QuickAnswer("What is the recommended clearance from grade?"))
	assert.Empty(t, QuickAnswer("hello"))
}
