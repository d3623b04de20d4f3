package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"etatcivil/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.StatusDemande
		want     bool
	}{
		{models.StatusEnCours, models.StatusValide, true},
		{models.StatusEnCours, models.StatusRejete, true},
		{models.StatusEnCours, models.StatusTransfere, true},
		{models.StatusEnCours, models.StatusEnCours, false},
		{models.StatusTransfere, models.StatusValide, true},
		{models.StatusTransfere, models.StatusRejete, true},
		{models.StatusTransfere, models.StatusTransfere, false},
		{models.StatusTransfere, models.StatusEnCours, false},
		{models.StatusValide, models.StatusRejete, false},
		{models.StatusValide, models.StatusTransfere, false},
		{models.StatusRejete, models.StatusValide, false},
		{models.StatusRejete, models.StatusEnCours, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("ARCHIVE", models.StatusValide))
	assert.False(t, CanTransition(models.StatusEnCours, "ARCHIVE"))
}
