package scoring

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"blogscope/models"
)

// Staleness penalties relative to the newest post. Cumulative: a blog
// silent for over a year loses both.
const (
	stalePenaltyDays   = 90
	stalePenalty       = 20
	dormantPenaltyDays = 365
	dormantPenalty     = 40
)

// ConsistencyScore rates how evenly spaced a blog's publishing cadence is,
// 0-100. dates must be newest-first; zero timestamps (unparseable feed
// dates) are skipped. Fewer than 3 usable dates is insufficient signal and
// scores a neutral 50.
func ConsistencyScore(dates []time.Time) int {
	usable := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			usable = append(usable, d)
		}
	}
	if len(usable) < 3 {
		return 50
	}

	gaps := make([]float64, 0, len(usable)-1)
	for i := 0; i < len(usable)-1; i++ {
		gaps = append(gaps, math.Abs(usable[i].Sub(usable[i+1]).Hours()/24))
	}

	mean, _ := stats.Mean(gaps)
	sd, _ := stats.StdDevP(gaps)
	cv := 0.0
	if mean > 0 {
		cv = sd / mean
	}

	score := 100 - cv*66

	daysSinceLast := time.Since(usable[0]).Hours() / 24
	if daysSinceLast > stalePenaltyDays {
		score -= stalePenalty
	}
	if daysSinceLast > dormantPenaltyDays {
		score -= dormantPenalty
	}

	return int(math.Round(clamp(score, 0, 100)))
}

// QualityScore blends structural and engagement signals into a 0-100
// composite:
//
//	content depth 25%  (words 15%, images 10%)
//	activity      25%  (volume 10%, consistency 15%)
//	engagement    30%  (comments, followers)
//	longevity     20%  (years active 10%, pages 10%)
//
// When no follower count was found the comment sub-score takes the whole
// engagement weight, so blogs where scraping failed are not penalized.
func QualityScore(s models.BlogStats) int {
	wordDepth := math.Min(100, s.AvgWordsPerPost/800*100)
	imageDepth := math.Min(100, s.AvgImagesPerPost/3*100)
	volume := math.Min(100, float64(s.TotalPosts)/100*100)

	commentScore := math.Min(100, s.AvgCommentsPerPost*10)
	engagement := commentScore * 0.30
	if s.FollowersCount > 0 {
		followerScore := math.Min(100, math.Log10(float64(s.FollowersCount))*25)
		engagement = commentScore*0.20 + followerScore*0.10
	}

	yearsActive := 0.0
	if !s.FirstPostDate.IsZero() {
		yearsActive = time.Since(s.FirstPostDate).Hours() / 24 / 365.25
		if yearsActive < 0 {
			yearsActive = 0
		}
	}
	longevity := math.Min(100, yearsActive*20)
	pagesScore := math.Min(100, float64(s.TotalPages)*20)

	total := wordDepth*0.15 +
		imageDepth*0.10 +
		volume*0.10 +
		float64(s.ConsistencyScore)*0.15 +
		engagement +
		longevity*0.10 +
		pagesScore*0.10

	return int(math.Round(total))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
