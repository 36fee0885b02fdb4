package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maa.plus/backend-next/internal/model"
)

func newTestCopilot(t *testing.T) *Copilot {
	t.Helper()
	gameData, _ := newTestGameData(t)
	requireSyncAllOk(t, gameData)

	return &Copilot{
		GameDataService: gameData,
	}
}

const validCopilotContent = `{
	"stage_name": "act1zone1_01",
	"opers": [
		{"name": "char_1_243", "skill": 2},
		{"name": "char_002_amiya", "skill": 3},
		{"name": "char_1_243", "skill": 1}
	],
	"doc": {
		"title": "S1 low-end squad",
		"details": "bring a medic for the first wave"
	}
}`

func TestCopilotParseContent(t *testing.T) {
	s := newTestCopilot(t)

	t.Run("Valid", func(t *testing.T) {
		copilot, err := s.parseContent([]byte(validCopilotContent))
		require.NoError(t, err)

		assert.Equal(t, "act1zone1_01", copilot.StageID)
		assert.Equal(t, "S1 low-end squad", copilot.Title)
		assert.Equal(t, "bring a medic for the first wave", copilot.Detail.String)
		// duplicated operator names collapse into one
		assert.Equal(t, []string{"char_1_243", "char_002_amiya"}, copilot.Operators)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := s.parseContent([]byte(`{"stage_name": `))
		require.Error(t, err)
	})

	t.Run("MissingStageName", func(t *testing.T) {
		_, err := s.parseContent([]byte(`{"doc": {"title": "t"}}`))
		require.Error(t, err)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		_, err := s.parseContent([]byte(`{"stage_name": "act1zone1_01", "doc": {}}`))
		require.Error(t, err)
	})

	t.Run("NoDetails", func(t *testing.T) {
		copilot, err := s.parseContent([]byte(`{"stage_name": "act1zone1_01", "doc": {"title": "t"}}`))
		require.NoError(t, err)
		assert.False(t, copilot.Detail.Valid)
	})
}

func TestCopilotRender(t *testing.T) {
	s := newTestCopilot(t)

	uploadTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	copilot := &model.Copilot{
		CopilotID:  42,
		StageID:    "act1zone1_01",
		Title:      "S1 low-end squad",
		Operators:  []string{"char_1_243", "char_unknown_999"},
		Content:    []byte(validCopilotContent),
		Views:      100,
		LikeCount:  7,
		UploadTime: uploadTime,
		Uploader:   &model.User{UserName: "doctor"},
	}

	info := s.render(copilot)

	assert.Equal(t, 42, info.ID)
	assert.Equal(t, "doctor", info.Uploader)
	assert.Equal(t, "Stage One", info.StageName)
	assert.Equal(t, "Operation Blade", info.ActivityName)
	// unknown operators are dropped from the display names, not errored on
	assert.Equal(t, []string{"Phantom"}, info.OperatorNames)
	assert.Equal(t, uploadTime.Format(time.RFC3339), info.UploadTime)
}

func TestCopilotRenderColdMirror(t *testing.T) {
	gameData, _ := newTestGameData(t)
	s := &Copilot{GameDataService: gameData}

	copilot := &model.Copilot{
		CopilotID: 1,
		StageID:   "act1zone1_01",
		Title:     "t",
		Operators: []string{"char_1_243"},
	}

	info := s.render(copilot)

	// a cold mirror leaves the enrichment fields empty instead of failing
	assert.Empty(t, info.StageName)
	assert.Empty(t, info.ZoneName)
	assert.Empty(t, info.ActivityName)
	assert.Empty(t, info.OperatorNames)
	assert.Equal(t, "act1zone1_01", info.StageID)
}

func TestCopilotUploadRejectsInvalidContent(t *testing.T) {
	s := newTestCopilot(t)
	loginUser := &model.LoginUser{User: model.User{UserID: 1}}

	_, err := s.Upload(context.Background(), loginUser, []byte(`not json`))
	require.Error(t, err)

	_, err = s.Upload(context.Background(), loginUser, []byte(`{"doc": {"title": "t"}}`))
	require.Error(t, err)
}
