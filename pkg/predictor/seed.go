// Package predictor is the stateless Monte Carlo ensemble engine: given a
// scenario baseline and caller-supplied modifiers, it runs N simulated race
// continuations and aggregates win/podium/points probabilities.
package predictor

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// BaseSeed derives a deterministic ensemble seed from the scenario id and
// modifiers so predict(id, mods) called twice in a row reproduces the exact
// same member seeds (§4.3, scenario 5). Adapted from the teacher's
// utils.HashAPIKey, which hashes a caller-supplied string into a stable
// identifier the same way — here the input is the scenario id plus the
// modifier record instead of an API key.
func BaseSeed(scenarioID string, mods model.Modifiers) int64 {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%.6f|%.6f|%.6f|%s", scenarioID, mods.Aggression, mods.SCProb, mods.TireDeg, mods.Weather)
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// MemberSeed derives ensemble member i's seed from the base seed, per §4.3:
// "seed ensemble-member RNG from base_seed ⊕ i".
func MemberSeed(base int64, i int) int64 {
	return base ^ int64(i)
}
