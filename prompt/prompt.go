package prompt

import "strings"

// BodyRegions are the keys of the single-photo analysis object, in prompt order.
var BodyRegions = []string{"shoulders", "arms", "chest", "back", "core", "legs"}

// MuscleGroups are the labels used by the comparison prompt, in prompt order.
var MuscleGroups = []string{"Shoulders", "Arms", "Chest", "Core", "Back", "Legs"}

// FrontPose is the only pose value that changes a prompt
const FrontPose = "front"

const baselinePrompt = `You are an experienced physique coach reviewing a progress photo.

Look at the photo and write exactly one sentence of observation for each body region:
shoulders, arms, chest, back, core and legs. Then write one sentence that sums up the overall physique.

Be specific about visible muscle development, definition and symmetry. Be encouraging but honest.
If a region is not visible in the photo, say so in its sentence.

Return ONLY a single JSON object with exactly these seven keys and string values, no markdown:
{
  "shoulders": "<one sentence>",
  "arms": "<one sentence>",
  "chest": "<one sentence>",
  "back": "<one sentence>",
  "core": "<one sentence>",
  "legs": "<one sentence>",
  "overall": "<one sentence>"
}`

const progressPrompt = `You are an experienced physique coach reviewing two progress photos of the same person.
The FIRST image is the previous photo. The SECOND image is the current photo.

For each body region (shoulders, arms, chest, back, core and legs) write exactly one sentence
describing the visible change from the previous photo to the current one: size, definition, symmetry.
If nothing changed or the region is not visible, say so. Then write one sentence that sums up the
overall progress.

Return ONLY a single JSON object with exactly these seven keys and string values, no markdown:
{
  "shoulders": "<one sentence>",
  "arms": "<one sentence>",
  "chest": "<one sentence>",
  "back": "<one sentence>",
  "core": "<one sentence>",
  "legs": "<one sentence>",
  "overall": "<one sentence>"
}`

const comparisonPrompt = `You are an experienced physique coach comparing a BEFORE and an AFTER photo of the same person.
The FIRST image is BEFORE. The SECOND image is AFTER.

For each muscle group (Shoulders, Arms, Chest, Core, Back, Legs):
- decide which photo shows the better development: "before", "after" or "same"
- write a one sentence observation explaining the difference

Then:
- write an overallSummary of two or three sentences about the overall change
- give 2 to 4 recommendations, each with a priority of "high", "medium" or "low"
- list the muscle groups that need the most attention as focusAreas

Return ONLY a single JSON object in exactly this shape, no markdown:
{
  "muscles": [
    {"name": "Shoulders", "winner": "before|after|same", "observation": "<one sentence>"},
    {"name": "Arms", "winner": "before|after|same", "observation": "<one sentence>"},
    {"name": "Chest", "winner": "before|after|same", "observation": "<one sentence>"},
    {"name": "Core", "winner": "before|after|same", "observation": "<one sentence>"},
    {"name": "Back", "winner": "before|after|same", "observation": "<one sentence>"},
    {"name": "Legs", "winner": "before|after|same", "observation": "<one sentence>"}
  ],
  "overallSummary": "<two or three sentences>",
  "recommendations": [
    {"text": "<recommendation>", "priority": "high|medium|low"}
  ],
  "focusAreas": ["<muscle group>"]
}`

const bodyFatClause = `

At least one photo is front-facing. Estimate the body fat percentage range visible in each
front-facing photo (for example "roughly 18-20%") and include those estimates inside overallSummary.
Do not add any new keys for it.`

// Analysis returns the single-photo instruction. With a previous photo it
// asks for the change between the two instead of a baseline.
func Analysis(hasPrevious bool) string {
	if hasPrevious {
		return progressPrompt
	}
	return baselinePrompt
}

// Comparison returns the before/after instruction, with the body fat clause
// when a front-facing pose was supplied.
func Comparison(frontPose bool) string {
	if frontPose {
		return comparisonPrompt + bodyFatClause
	}
	return comparisonPrompt
}

// HasFrontPose reports whether any pose is exactly "front".
func HasFrontPose(poses ...string) bool {
	for _, p := range poses {
		if p == FrontPose {
			return true
		}
	}
	return false
}

// IsComparison reports whether text is a before/after comparison instruction.
func IsComparison(text string) bool {
	return strings.HasPrefix(text, comparisonPrompt[:64])
}

// RequestsBodyFat reports whether text carries the body fat clause.
func RequestsBodyFat(text string) bool {
	return strings.Contains(text, strings.TrimSpace(bodyFatClause))
}
