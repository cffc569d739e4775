package week

import (
	"fmt"
	"time"
)

// StartDay is the weekday on which a new week begins.
const StartDay = time.Saturday

// ID identifies a week as (year, week number).
type ID struct {
	Year   int
	Number int
}

func (id ID) String() string {
	return fmt.Sprintf("%d-%d", id.Year, id.Number)
}

// Number returns the week of the year containing t. It is not ISO 8601:
// weeks run Saturday to Friday, and the days of January before the first
// Saturday form week 1.
//
//	number = ceil((dayOfYear + jan1Weekday + 1) / 7)
//
// with dayOfYear starting at 1 and jan1Weekday counting from Sunday = 0.
func Number(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	n := t.YearDay() + int(jan1.Weekday()) + 1
	return (n + 6) / 7
}

func Of(t time.Time) ID {
	return ID{Year: t.Year(), Number: Number(t)}
}

// YearBoundaryPolicy decides how the week being closed is labelled.
type YearBoundaryPolicy string

const (
	// PolicyLiteral labels the closed week (year, number-1) with no
	// wraparound into the previous year.
	PolicyLiteral YearBoundaryPolicy = "literal"
	// PolicyWrap labels the closed week with the identity of the day one
	// week earlier, so a week that began in December keeps its old year.
	PolicyWrap YearBoundaryPolicy = "wrap"
)

func ParsePolicy(s string) (YearBoundaryPolicy, error) {
	switch p := YearBoundaryPolicy(s); p {
	case PolicyLiteral, PolicyWrap:
		return p, nil
	case "":
		return PolicyLiteral, nil
	}
	return "", fmt.Errorf("unknown year boundary policy %q", s)
}

// Previous returns the identity of the week that ends when now's week
// begins.
func (p YearBoundaryPolicy) Previous(now time.Time) ID {
	if p == PolicyWrap {
		return Of(now.AddDate(0, 0, -7))
	}
	cur := Of(now)
	return ID{Year: cur.Year, Number: cur.Number - 1}
}
