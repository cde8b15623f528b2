// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testapp

import (
	"fmt"
	"strings"
)

// Small in-memory knowledge base for quick answers. Queries it can answer
// never reach the model, which keeps the common questions instant and free.

var hardiePlankInstallSteps = []string{
	"Start with proper wall preparation and moisture barrier",
	"Install starter strip at bottom of wall",
	"Cut siding with appropriate tools (circular saw with carbide blade)",
	"Maintain 1/4\" gap at all joints and penetrations",
	"Use corrosion-resistant fasteners (stainless steel or galvanized)",
	"Pre-drill holes for nails to prevent cracking",
}

var hardiePlankTools = []string{
	"Circular saw with carbide blade",
	"Drill",
	"Level",
	"Chalk line",
	"Safety equipment",
}

var generalInstallGuidelines = []string{
	"Always follow local building codes",
	"Maintain proper clearances (6\" from grade, 2\" from rooflines)",
	"Use proper flashing and weather barriers",
	"Prime and paint all cut edges within 60 days",
	"Store materials flat and off the ground",
}

const hardiePlankDescription = "HardiePlank® lap siding is a fiber cement siding that combines the look " +
	"of wood with superior durability and performance."

const hardieTrimDescription = "HardieTrim® boards provide clean lines and architectural detail with the " +
	"durability of fiber cement."

// QuickAnswer returns a canned answer for common product questions, or empty
// when the query needs the model.
func QuickAnswer(query string) string {
	queryLower := strings.ToLower(query)

	switch {
	case strings.Contains(queryLower, "hardieplank"):
		if strings.Contains(queryLower, "install") {
			var sb strings.Builder
			sb.WriteString("HardiePlank installation key steps:\n")
			for i, step := range hardiePlankInstallSteps {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
			}
			return strings.TrimRight(sb.String(), "\n")
		}
		if strings.Contains(queryLower, "tool") {
			return fmt.Sprintf("Tools needed for HardiePlank installation: %s", strings.Join(hardiePlankTools, ", "))
		}
		return hardiePlankDescription

	case strings.Contains(queryLower, "hardietrim"):
		return hardieTrimDescription

	case strings.Contains(queryLower, "install"):
		var sb strings.Builder
		sb.WriteString("General James Hardie installation guidelines:\n")
		for _, guideline := range generalInstallGuidelines {
			fmt.Fprintf(&sb, "• %s\n", guideline)
		}
		return strings.TrimRight(sb.String(), "\n")
	}

	return ""
}
