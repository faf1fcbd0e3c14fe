package usecases

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/pkg/logger"
)

// coordinateMatch is a phase-1 raw pairing before scoring/thresholding.
type coordinateMatch struct {
	candidateIndex int
	referenceIndex int
	distanceMiles  float64
}

// coordKey buckets a coordinate pair truncated to a fixed precision.
type coordKey struct {
	lat float64
	lon float64
}

// LocationMatcher links candidate-list records to reference-list records
// using coordinate buckets, haversine proximity, and name/address
// similarity. It is a pure in-memory computation; all I/O happens before
// and after it.
type LocationMatcher struct {
	params entities.MatchingParameters
}

func NewLocationMatcher(params entities.MatchingParameters) *LocationMatcher {
	return &LocationMatcher{params: params}
}

// Match runs the two matching phases. The roles are asymmetric: candidates
// are the "new" list (PiggyCards), references the list whose identity wins
// on merge (CTX). Phase 1 always runs first; phase 2 only considers records
// neither side matched in phase 1.
func (m *LocationMatcher) Match(ctx context.Context, candidates, references []entities.MerchantLocation) []entities.MatchInfo {
	log := logger.WithContext(ctx)
	log.Info("starting coordinate-priority matching",
		zap.Int("candidates", len(candidates)),
		zap.Int("references", len(references)),
		zap.Int("coordinatePrecision", m.params.CoordinatePrecision))

	raw := m.coordinateBucketMatches(candidates, references)

	var matches []entities.MatchInfo
	matchedCandidates := make(map[int]bool)
	matchedReferences := make(map[int]bool)

	for _, cm := range raw {
		cand := &candidates[cm.candidateIndex]
		ref := &references[cm.referenceIndex]

		nameSim := 0.0
		if !m.params.IgnoreName {
			nameSim = nameSimilarity(cand.Name, ref.Name)
			if nameSim < m.params.MinNameSimilarity {
				continue
			}
		}
		streetSim := m.streetSimilarity(cand, ref)

		confidence := m.confidenceScore(cm.distanceMiles, nameSim, streetSim, cand, ref)
		if confidence < m.params.MinConfidence {
			continue
		}

		matches = append(matches, entities.MatchInfo{
			CandidateIndex:    cm.candidateIndex,
			ReferenceIndex:    cm.referenceIndex,
			DistanceMiles:     cm.distanceMiles,
			NameSimilarity:    nameSim,
			AddressSimilarity: streetSim,
			Confidence:        confidence,
			Reasons:           fmt.Sprintf("truncated_coordinates_%ddp, coordinate_priority_match", m.params.CoordinatePrecision),
			CityMatch:         !m.params.IgnoreCity,
			StateMatch:        !m.params.IgnoreState,
		})
		matchedCandidates[cm.candidateIndex] = true
		matchedReferences[cm.referenceIndex] = true
	}

	log.Info("coordinate bucket phase done",
		zap.Int("rawPairings", len(raw)),
		zap.Int("accepted", len(matches)))

	matches = append(matches, m.proximityMatches(candidates, references, matchedCandidates, matchedReferences)...)

	log.Info("matching finished", zap.Int("totalMatches", len(matches)))
	return matches
}

// coordinateBucketMatches builds a truncated-coordinate index over the
// reference list and pairs every candidate with the references sharing its
// bucket, keeping pairs within the distance cutoff. A candidate may pair
// with several references here; all survivors get scored.
func (m *LocationMatcher) coordinateBucketMatches(candidates, references []entities.MerchantLocation) []coordinateMatch {
	lookup := make(map[coordKey][]int)
	for i := range references {
		ref := &references[i]
		if !ref.HasCoordinates() {
			continue
		}
		k := coordKey{
			lat: truncateCoordinate(ref.Latitude.Float64, m.params.CoordinatePrecision),
			lon: truncateCoordinate(ref.Longitude.Float64, m.params.CoordinatePrecision),
		}
		lookup[k] = append(lookup[k], i)
	}

	var out []coordinateMatch
	for i := range candidates {
		cand := &candidates[i]
		if !cand.HasCoordinates() {
			continue
		}
		k := coordKey{
			lat: truncateCoordinate(cand.Latitude.Float64, m.params.CoordinatePrecision),
			lon: truncateCoordinate(cand.Longitude.Float64, m.params.CoordinatePrecision),
		}
		for _, refIdx := range lookup[k] {
			ref := &references[refIdx]
			dist := haversineDistance(
				cand.Latitude.Float64, cand.Longitude.Float64,
				ref.Latitude.Float64, ref.Longitude.Float64)

			if dist > m.params.MaxDistance {
				continue
			}
			if !m.params.IgnoreName && nameSimilarity(cand.Name, ref.Name) < m.params.MinNameSimilarity {
				continue
			}
			out = append(out, coordinateMatch{
				candidateIndex: i,
				referenceIndex: refIdx,
				distanceMiles:  dist,
			})
		}
	}
	return out
}

// proximityMatches is the phase-2 fallback: for every still-unmatched
// candidate, score every still-unmatched reference within MaxDistance.
// Unless ShowAllMatches is set, only the highest-confidence pair per
// candidate is kept.
func (m *LocationMatcher) proximityMatches(
	candidates, references []entities.MerchantLocation,
	matchedCandidates, matchedReferences map[int]bool,
) []entities.MatchInfo {
	var out []entities.MatchInfo

	var remainingRefs []int
	for i := range references {
		if !matchedReferences[i] && references[i].HasCoordinates() {
			remainingRefs = append(remainingRefs, i)
		}
	}
	if len(remainingRefs) == 0 {
		return nil
	}

	for i := range candidates {
		if matchedCandidates[i] {
			continue
		}
		cand := &candidates[i]
		if !cand.HasCoordinates() {
			continue
		}

		var local []entities.MatchInfo
		for _, refIdx := range remainingRefs {
			ref := &references[refIdx]
			dist := haversineDistance(
				cand.Latitude.Float64, cand.Longitude.Float64,
				ref.Latitude.Float64, ref.Longitude.Float64)
			if dist > m.params.MaxDistance {
				continue
			}

			nameSim := 0.0
			if !m.params.IgnoreName {
				nameSim = nameSimilarity(cand.Name, ref.Name)
				if nameSim < m.params.MinNameSimilarity {
					continue
				}
			}
			streetSim := m.streetSimilarity(cand, ref)

			confidence := m.confidenceScore(dist, nameSim, streetSim, cand, ref)
			if confidence < m.params.MinConfidence {
				continue
			}

			local = append(local, entities.MatchInfo{
				CandidateIndex:    i,
				ReferenceIndex:    refIdx,
				DistanceMiles:     dist,
				NameSimilarity:    nameSim,
				AddressSimilarity: streetSim,
				Confidence:        confidence,
				Reasons:           fmt.Sprintf("coordinate_priority_proximity, distance_%.3fmi", dist),
				CityMatch:         !m.params.IgnoreCity,
				StateMatch:        !m.params.IgnoreState,
			})
		}
		if len(local) == 0 {
			continue
		}

		sort.SliceStable(local, func(a, b int) bool {
			return local[a].Confidence > local[b].Confidence
		})
		if m.params.ShowAllMatches {
			out = append(out, local...)
		} else {
			out = append(out, local[0])
		}
	}
	return out
}

func (m *LocationMatcher) streetSimilarity(cand, ref *entities.MerchantLocation) float64 {
	if !m.params.IncludeAddress {
		return 0.0
	}
	if !(m.params.IgnoreCity || m.params.IgnoreState || m.params.IgnoreZip) {
		return 0.0
	}
	return streetAddressSimilarity(cand.Address1, ref.Address1)
}

// confidenceScore combines the geographic and textual signals into a [0,1]
// score. Coordinate distance dominates: a strong textual match can never
// override a weak geographic signal because of the final ceilings.
func (m *LocationMatcher) confidenceScore(distance, nameSim, streetSim float64, cand, ref *entities.MerchantLocation) float64 {
	coordinateScore := coordinateScoreForDistance(distance)

	nameScore := nameSim
	if m.params.IgnoreName {
		nameScore = 1.0
	}

	streetScore := 0.0
	if (m.params.IgnoreCity || m.params.IgnoreState || m.params.IgnoreZip) && streetSim > 0 {
		streetScore = streetSim
	}

	var confidence float64
	if m.params.IgnoreName {
		if m.params.IgnoreCity || m.params.IgnoreState || m.params.IgnoreZip {
			confidence = coordinateScore*0.7 + streetScore*0.3
		} else {
			confidence = coordinateScore
		}
	} else {
		if m.params.IgnoreCity || m.params.IgnoreState || m.params.IgnoreZip {
			confidence = coordinateScore*0.5 + nameScore*0.3 + streetScore*0.2
		} else {
			confidence = coordinateScore*0.6 + nameScore*0.4
		}
	}

	geoBonus := 0.0
	if !m.params.IgnoreCity && citiesMatch(cand.City, ref.City) {
		geoBonus += 0.05
	}
	if !m.params.IgnoreState && statesMatch(cand.Territory, ref.Territory) {
		geoBonus += 0.05
	}
	if !m.params.IgnoreZip && zipCodesMatch(cand.Address1, ref.Address1) {
		geoBonus += 0.02
	}

	final := confidence + geoBonus
	if final > 1.0 {
		final = 1.0
	}

	if coordinateScore < 0.5 && final > m.params.WeakCoordinateCeiling {
		final = m.params.WeakCoordinateCeiling
	} else if coordinateScore >= 0.5 && coordinateScore < 0.7 && final > m.params.FairCoordinateCeiling {
		final = m.params.FairCoordinateCeiling
	}
	return final
}

// coordinateScoreForDistance maps a distance in miles onto fixed bands.
func coordinateScoreForDistance(distance float64) float64 {
	switch {
	case distance <= 0.01: // ~50 feet
		return 1.0
	case distance <= 0.03: // ~150 feet
		return 0.95
	case distance <= 0.05: // ~250 feet
		return 0.85
	case distance <= 0.1: // ~500 feet
		return 0.7
	case distance <= 0.2: // ~1000 feet
		return 0.5
	case distance <= 0.5: // ~2500 feet
		return 0.3
	default:
		return 0.1
	}
}
