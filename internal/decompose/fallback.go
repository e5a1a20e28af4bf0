package decompose

import (
	"fmt"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

// TemplateBreakdown is the deterministic local decomposition used when no AI
// backend is available. It produces the same generic three-phase structure
// for any goal, which the user can then edit by hand.
func TemplateBreakdown(goal *domain.Goal) *Breakdown {
	title := goal.Title
	return &Breakdown{
		Source: "template",
		Tasks: []TaskDraft{
			{
				Title:                 fmt.Sprintf("Get oriented: %s", title),
				EstimatedTotalMinutes: 60,
				Units: []UnitDraft{
					{
						Title:            fmt.Sprintf("Write down what finishing %q would look like", title),
						Kind:             constants.KindExplore.String(),
						EstimatedMinutes: 20,
						FirstAction:      "Open a blank note",
						SuccessSignal:    "One paragraph describing the end state",
					},
					{
						Title:            "List the first three obstacles you already know about",
						Kind:             constants.KindExplore.String(),
						EstimatedMinutes: 20,
					},
					{
						Title:            "Find one resource (book, course, person) to learn from",
						Kind:             constants.KindStudy.String(),
						EstimatedMinutes: 20,
					},
				},
			},
			{
				Title:                 "Build a routine",
				EstimatedTotalMinutes: 90,
				Units: []UnitDraft{
					{
						Title:            "Do one small, complete session",
						Kind:             constants.KindPractice.String(),
						EstimatedMinutes: 30,
						FirstAction:      "Set a timer for thirty minutes",
						SuccessSignal:    "Timer finished without switching away",
					},
					{
						Title:            "Repeat the session and note what felt hard",
						Kind:             constants.KindPractice.String(),
						EstimatedMinutes: 30,
					},
					{
						Title:            "Adjust the routine based on the notes",
						Kind:             constants.KindReview.String(),
						EstimatedMinutes: 30,
					},
				},
			},
			{
				Title:                 "First real milestone",
				EstimatedTotalMinutes: 120,
				Units: []UnitDraft{
					{
						Title:            "Pick a concrete deliverable two weeks out",
						Kind:             constants.KindExplore.String(),
						EstimatedMinutes: 20,
					},
					{
						Title:            "Work toward the deliverable",
						Kind:             constants.KindBuild.String(),
						EstimatedMinutes: 60,
					},
					{
						Title:            "Review the result against your original end state",
						Kind:             constants.KindReview.String(),
						EstimatedMinutes: 40,
					},
				},
			},
		},
	}
}
