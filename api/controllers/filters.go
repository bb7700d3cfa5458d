package controllers

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/gin-gonic/gin"
)

// teamFilterFromQuery reads progress, track, payment, complete and search.
func teamFilterFromQuery(g *gin.Context) (domain.TeamFilter, error) {
	var f domain.TeamFilter
	if raw := g.Query("progress"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			p, err := domain.ParseProgress(strings.TrimSpace(part))
			if err != nil {
				return f, err
			}
			f.Progress = append(f.Progress, p)
		}
	}
	if track := g.Query("track"); track != "" {
		if !domain.ValidTrack(track) {
			return f, domain.Validationf("unknown track %q", track)
		}
		f.Track = track
	}
	if payment := g.Query("payment"); payment != "" {
		p := domain.PaymentStatus(payment)
		if p != domain.PaymentPaid && p != domain.PaymentPending {
			return f, domain.Validationf("unknown payment status %q", payment)
		}
		f.Payment = p
	}
	if complete := g.Query("complete"); complete != "" {
		v, err := strconv.ParseBool(complete)
		if err != nil {
			return f, domain.Validationf("complete must be true or false")
		}
		f.CompleteOnly = v
	}
	f.Search = strings.TrimSpace(g.Query("search"))
	return f, nil
}

func sortTeamResponses(teams []models.TeamResponse) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Number < teams[j].Number
	})
}
