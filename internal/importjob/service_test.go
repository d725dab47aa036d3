package importjob

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDeriveType(t *testing.T) {
	jt, err := Request{ChecklistText: "1 | Mike Trout | Angels"}.DeriveType()
	require.NoError(t, err)
	assert.Equal(t, JobTypeChecklistText, jt)

	jt, err = Request{TCDBSetID: "482758"}.DeriveType()
	require.NoError(t, err)
	assert.Equal(t, JobTypeTCDBSet, jt)

	// TCDB wins when both are set; the scrape carries its own checklist.
	jt, err = Request{TCDBSetID: "482758", ChecklistText: "x"}.DeriveType()
	require.NoError(t, err)
	assert.Equal(t, JobTypeTCDBSet, jt)

	_, err = Request{}.DeriveType()
	assert.Error(t, err)
}

func TestJobCopy(t *testing.T) {
	job := &Job{
		JobID:   "abc",
		JobType: JobTypeChecklistText,
		Status:  JobStatusQueued,
		SetName: sql.NullString{String: "2024 Topps", Valid: true},
	}

	cpy := job.Copy()
	require.NotNil(t, cpy)
	assert.Equal(t, job, cpy)

	cpy.Status = JobStatusRunning
	assert.Equal(t, JobStatusQueued, job.Status)

	var nilJob *Job
	assert.Nil(t, nilJob.Copy())
}

func TestDefaultRunnerRejectsUnknownType(t *testing.T) {
	runner := NewDefaultRunner(nil, nil)

	err := runner.Run(context.Background(), &Job{JobID: "x", JobType: "mystery"}, func(int, int, string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job type")
}

func TestDefaultRunnerTCDBDisabled(t *testing.T) {
	runner := NewDefaultRunner(nil, nil)

	job := &Job{
		JobID:   "y",
		JobType: JobTypeTCDBSet,
		Payload: sql.NullString{String: "482758", Valid: true},
	}
	err := runner.Run(context.Background(), job, func(int, int, string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}
