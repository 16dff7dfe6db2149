package nsapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	previous := []Record{
		TripRemark{Key: "R1"},
		TripRemark{Key: "R2"},
	}
	current := []Record{
		TripRemark{Key: "R2"},
		TripRemark{Key: "R3"},
	}

	assert.Equal(t, []Record{TripRemark{Key: "R3"}}, Diff(previous, current))
	assert.Empty(t, Diff(current, current))
	assert.Equal(t, current, Diff(nil, current))
}

func TestIntersect(t *testing.T) {
	a := []string{"AMR", "ASD", "SHL"}
	b := []string{"SHL", "UT", "AMR"}

	assert.Equal(t, []string{"SHL", "AMR"}, Intersect(a, b))
	assert.Empty(t, Intersect(a, []string{"GVC"}))
}

func TestMerge(t *testing.T) {
	a := []Record{
		TripRemark{Key: "R1"},
		TripRemark{Key: "R2"},
	}
	b := []Record{
		TripRemark{Key: "R2"},
		TripRemark{Key: "R3"},
	}

	assert.Equal(t, []Record{
		TripRemark{Key: "R1"},
		TripRemark{Key: "R2"},
		TripRemark{Key: "R3"},
	}, Merge(a, b))

	// Duplicates within one input collapse too
	assert.Equal(t, []Record{TripRemark{Key: "R1"}}, Merge([]Record{
		TripRemark{Key: "R1"},
		TripRemark{Key: "R1"},
	}, nil))
}
