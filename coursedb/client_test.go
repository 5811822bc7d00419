package coursedb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamchris0/hsedeadlinerbot/internal/appconf"
	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(NewConfig(":memory:", appconf.Test))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func testCourse(chatID int64) (models.CourseSummary, []models.Weight, []models.Assignment, []models.InfoRow) {
	course := models.CourseSummary{
		ChatID:     chatID,
		FilePath:   "data/100.xlsx",
		UploadedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	weights := []models.Weight{
		{Label: "КР", Value: 0.3},
		{Label: "Экзамен", Value: 0.7},
	}
	assignments := []models.Assignment{
		{Title: "ДЗ 2", Due: time.Date(2026, 9, 20, 0, 0, 0, 0, time.Local), Link: "https://example.org/hw2"},
		{Title: "ДЗ 1", Due: time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)},
	}
	info := []models.InfoRow{
		{Label: "Преподаватель", Value: "@petrov"},
		{Label: "Вики", Value: "wiki.example.org"},
	}
	return course, weights, assignments, info
}

func TestNewClient_RejectsOnDiskPathInTestEnv(t *testing.T) {
	_, err := NewClient(NewConfig("somewhere.db", appconf.Test))
	assert.Error(t, err)
}

func TestReplaceCourse_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	course, weights, assignments, info := testCourse(100)
	require.NoError(t, client.ReplaceCourse(ctx, course, weights, assignments, info))

	stored, err := client.GetCourse(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, course.FilePath, stored.FilePath)
	assert.Equal(t, course.UploadedAt, stored.UploadedAt.UTC())

	gotWeights, err := client.QueryWeights(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, weights, gotWeights)

	gotInfo, err := client.QueryInfoRows(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, info, gotInfo)
}

func TestQueryAssignments_OrderedByDueDate(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	course, weights, assignments, info := testCourse(100)
	require.NoError(t, client.ReplaceCourse(ctx, course, weights, assignments, info))

	got, err := client.QueryAssignments(ctx, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ДЗ 1", got[0].Title)
	assert.Equal(t, "ДЗ 2", got[1].Title)
	assert.Equal(t, "https://example.org/hw2", got[1].Link)
}

func TestQueryAssignmentsDueOn(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	course, weights, assignments, info := testCourse(100)
	require.NoError(t, client.ReplaceCourse(ctx, course, weights, assignments, info))

	got, err := client.QueryAssignmentsDueOn(ctx, 100, time.Date(2026, 9, 10, 15, 30, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ДЗ 1", got[0].Title)

	none, err := client.QueryAssignmentsDueOn(ctx, 100, time.Date(2026, 9, 11, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReplaceCourse_ReplacesPreviousUpload(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	course, weights, assignments, info := testCourse(100)
	require.NoError(t, client.ReplaceCourse(ctx, course, weights, assignments, info))

	replacement := []models.Assignment{
		{Title: "Проект", Due: time.Date(2026, 12, 20, 0, 0, 0, 0, time.Local)},
	}
	require.NoError(t, client.ReplaceCourse(ctx, course, nil, replacement, nil))

	got, err := client.QueryAssignments(ctx, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Проект", got[0].Title)

	gotWeights, err := client.QueryWeights(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, gotWeights)
}

func TestReplaceCourse_IsolatedPerChat(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	course, weights, assignments, info := testCourse(100)
	require.NoError(t, client.ReplaceCourse(ctx, course, weights, assignments, info))
	other, _, otherAssignments, _ := testCourse(200)
	require.NoError(t, client.ReplaceCourse(ctx, other, nil, otherAssignments[:1], nil))

	count, err := client.CountCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := client.QueryAssignments(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDeleteCourse_CascadesToSheetRows(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	course, weights, assignments, info := testCourse(100)
	require.NoError(t, client.ReplaceCourse(ctx, course, weights, assignments, info))
	require.NoError(t, client.DeleteCourse(ctx, 100))

	stored, err := client.GetCourse(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, stored)

	got, err := client.QueryAssignments(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
}
