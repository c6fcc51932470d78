package service

import (
	"threadjudge-backend/models"
)

// resolveInitialStatuses assigns each argument its pre-clash status:
//
//   - a concession is conceded, regardless of responses
//   - no responses: dropped if the opposing side made any argument
//     strictly later in the thread (they had the chance to answer and
//     did not engage), extended otherwise
//   - any responses: contested, pending clash resolution
func resolveInitialStatuses(args []*models.Argument) {
	for _, arg := range args {
		if arg.Concession {
			arg.Status = models.StatusConceded
			continue
		}
		if len(arg.Responses) > 0 {
			arg.Status = models.StatusContested
			continue
		}
		if opposedLater(arg, args) {
			arg.Status = models.StatusDropped
		} else {
			arg.Status = models.StatusExtended
		}
	}
}

// opposedLater reports whether any opposite-position argument appears
// strictly after arg in thread time
func opposedLater(arg *models.Argument, args []*models.Argument) bool {
	for _, other := range args {
		if other.Position == arg.Position {
			continue
		}
		if other.Timestamp.After(arg.Timestamp) {
			return true
		}
	}
	return false
}

// refineStatusesFromClashes upgrades contested statuses using clash
// outcomes. Only arguments still contested move; statuses decided in the
// initial pass (conceded, dropped, extended) are never overwritten.
//
//   - attacker wins a turn: the defender's argument is turned
//   - attacker wins otherwise: the defender's argument is refuted
//   - either way the winning attacker is extended
//   - defender wins: the attacker's argument is refuted, the defender's
//     is extended
//   - a draw leaves both contested
func refineStatusesFromClashes(args []*models.Argument, clashes []*models.Clash) {
	byID := make(map[string]*models.Argument, len(args))
	for _, a := range args {
		byID[a.ID.String()] = a
	}

	for _, clash := range clashes {
		attacker := byID[clash.AttackerID.String()]
		defender := byID[clash.DefenderID.String()]
		if attacker == nil || defender == nil {
			continue
		}

		switch clash.Winner {
		case models.ClashWinnerAttacker:
			if defender.Status == models.StatusContested {
				if clash.Type == models.ClashTurn {
					defender.Status = models.StatusTurned
				} else {
					defender.Status = models.StatusRefuted
				}
			}
			if attacker.Status == models.StatusContested {
				attacker.Status = models.StatusExtended
			}
		case models.ClashWinnerDefender:
			if attacker.Status == models.StatusContested {
				attacker.Status = models.StatusRefuted
			}
			if defender.Status == models.StatusContested {
				defender.Status = models.StatusExtended
			}
		}
	}
}
