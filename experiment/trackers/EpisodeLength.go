package trackers

import (
	"github.com/samuelfneumann/mazevi/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// length will not be saved.
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track tracks the episode lengths in an experiment. When this function
// is called, it caches the episode length if the timestep passed to it
// is the last timestep in the episode.
func (e *EpisodeLength) Track(t timestep.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, t.Number)
	}
}

// Data returns the lengths of the finished episodes
func (e *EpisodeLength) Data() []int {
	data := make([]int, len(e.episodeLengths))
	copy(data, e.episodeLengths)
	return data
}

// Save saves the data tracked by the EpisodeLength Tracker to disk as
// a gob-encoded []int
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
