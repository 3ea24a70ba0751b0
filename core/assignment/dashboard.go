package assignment

import (
	"math"
	"time"
)

// Card is one dashboard entry: a catalog assignment merged with the
// learner's progress row, or with the catalog defaults when no row exists.
type Card struct {
	Assignment
	Status          Status     `json:"status"`
	Locked          bool       `json:"locked"`
	HintsUnlocked   bool       `json:"hints_unlocked"`
	SubmissionLink  *string    `json:"submission_link"`
	SubmissionNotes *string    `json:"submission_notes"`
	SubmissionFiles []string   `json:"submission_files"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	Feedback        *string    `json:"feedback"`
	HasProgress     bool       `json:"has_progress"`
}

// Merge overlays a progress row (possibly nil) onto its catalog entry.
// Deterministic; hint text is withheld until paid for.
func Merge(asg Assignment, prog *Progress) Card {
	card := Card{
		Assignment: asg,
		Status:     asg.BaseStatus,
		Locked:     asg.LockedByDefault,
	}
	if prog != nil {
		card.Status = prog.Status
		card.Locked = prog.Locked
		card.HintsUnlocked = prog.HintsUnlocked
		card.SubmissionLink = prog.SubmissionLink
		card.SubmissionNotes = prog.SubmissionNotes
		card.SubmissionFiles = prog.SubmissionFiles
		card.SubmittedAt = prog.SubmittedAt
		card.Feedback = prog.Feedback
		card.HasProgress = true
	}
	if !card.HintsUnlocked {
		card.Hints = nil
	}
	if card.Locked {
		card.Summary = nil
	}
	return card
}

// BuildCards merges the full catalog against the learner's progress rows,
// preserving the catalog's display order.
func BuildCards(assignments []Assignment, progressByAssignmentID map[string]Progress) []Card {
	cards := make([]Card, 0, len(assignments))
	for _, asg := range assignments {
		var prog *Progress
		if p, ok := progressByAssignmentID[asg.ID]; ok {
			prog = &p
		}
		cards = append(cards, Merge(asg, prog))
	}
	return cards
}

// Metrics are derived wholesale from a fresh snapshot on every refresh,
// never cached independently.
type Metrics struct {
	Total           int `json:"total"`
	PercentComplete int `json:"percent_complete"`
	UnlockedCount   int `json:"unlocked_count"`
}

func ComputeMetrics(cards []Card) Metrics {
	m := Metrics{Total: len(cards)}
	if m.Total == 0 {
		return m
	}
	var started int
	for _, c := range cards {
		if c.Status != StatusPending {
			started++
		}
		if !c.Locked {
			m.UnlockedCount++
		}
	}
	m.PercentComplete = int(math.Round(100 * float64(started) / float64(m.Total)))
	return m
}

// ReconcileExpanded merges the client's card-expansion memory with the
// fresh snapshot. A card whose locked flag flipped true -> false since the
// client's last snapshot is expanded once, on the observed transition; a
// card never auto-collapses on its own. An empty previous state (first
// render) seeds the set with current-day and already-started cards. Ids
// with no open card in the snapshot (locked again, or gone from the
// catalog) are dropped.
func ReconcileExpanded(prevExpanded []string, prevLocked map[string]bool, cards []Card) []string {
	byID := make(map[string]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	var expanded []string
	if len(prevExpanded) == 0 && len(prevLocked) == 0 {
		for _, c := range cards {
			if c.IsCurrentDay || c.Status != StatusPending {
				expanded = append(expanded, c.ID)
			}
		}
	} else {
		expanded = make([]string, len(prevExpanded))
		copy(expanded, prevExpanded)
		seen := make(map[string]bool, len(expanded))
		for _, id := range expanded {
			seen[id] = true
		}
		for _, c := range cards {
			if wasLocked, known := prevLocked[c.ID]; known && wasLocked && !c.Locked && !seen[c.ID] {
				expanded = append(expanded, c.ID)
				seen[c.ID] = true
			}
		}
	}

	open := expanded[:0]
	for _, id := range expanded {
		if c, ok := byID[id]; ok && !c.Locked {
			open = append(open, id)
		}
	}
	if len(open) == 0 {
		return nil
	}
	return open
}
