package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestScheduler_AddJob(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s := New(zerolog.Nop(), loc)
	require.NoError(t, s.AddJob("0 30 18 * * MON-FRI", &countingJob{}))
	require.NoError(t, s.AddJob("@weekly", &countingJob{}))
	assert.Equal(t, 2, s.Entries())

	s.Start()
	defer s.Stop()

	next := s.NextRun()
	assert.False(t, next.IsZero())
}

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop(), nil)
	err := s.AddJob("not a schedule", &countingJob{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting")
	assert.Equal(t, 0, s.Entries())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop(), nil)
	job := &countingJob{}

	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)

	job.err = errors.New("boom")
	assert.EqualError(t, s.RunNow(job), "boom")
}

func TestScheduler_NextRun_NoJobs(t *testing.T) {
	assert.True(t, New(zerolog.Nop(), nil).NextRun().IsZero())
}
