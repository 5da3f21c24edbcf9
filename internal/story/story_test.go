package story_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyreel/internal/services"
	"storyreel/internal/story"
)

const harvest = `[
    {
        "title": "The Thing in the Walls",
        "author": "night_owl",
        "score": 812,
        "created_utc": "2024-03-01T12:34:56",
        "url": "https://example.com/walls",
        "content": "Every night at three I hear scratching inside the walls of my apartment, slow and patient."
    },
    {
        "title": "Link post",
        "author": "someone",
        "score": 10,
        "content": ""
    },
    {
        "title": "Selftext only",
        "author": "legacy",
        "selftext": "My grandmother kept a locked room at the end of the hall and never once said why."
    },
    {
        "title": "The Thing in the Walls (repost)",
        "author": "karma_farmer",
        "content": "Every night at three I hear scratching inside the walls of my apartment, slow and patient!"
    },
    {
        "title": "The Locked Room",
        "author": "legacy",
        "content": "My grandmother kept a locked room at the end of the hall and never once said why."
    }
]`

func writeHarvest(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeHarvest(t, t.TempDir(), "creepypasta_stories_20240301_120000.json", harvest)

	collection, err := story.LoadFile(path, story.MaxContentLength)
	require.NoError(t, err)

	require.Len(t, collection.Stories, 2)
	assert.Equal(t, "The Thing in the Walls", collection.Stories[0].Title)
	assert.Equal(t, 812, collection.Stories[0].Score)
	assert.Equal(t, "The Locked Room", collection.Stories[1].Title)
	assert.True(t, strings.HasPrefix(collection.Stories[1].Content, "My grandmother"))

	require.Len(t, collection.Rejected, 3)
	assert.Equal(t, 2, collection.Rejected[0].Index)
	assert.Contains(t, collection.Rejected[0].Reason, "content is empty")
	assert.Equal(t, 3, collection.Rejected[1].Index, "selftext is not an accepted content field")
	assert.Contains(t, collection.Rejected[1].Reason, "content is empty")
	assert.Equal(t, 4, collection.Rejected[2].Index)
	assert.Contains(t, collection.Rejected[2].String(), "duplicate of")
}

func TestLoadFileEnforcesContentLimit(t *testing.T) {
	path := writeHarvest(t, t.TempDir(), "x_stories_1.json", harvest)
	collection, err := story.LoadFile(path, 40)
	require.NoError(t, err)
	assert.Empty(t, collection.Stories)
	assert.Contains(t, collection.Rejected[0].Reason, "limit is 40")
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := story.LoadFile(filepath.Join(dir, "missing.json"), 0)
	assert.True(t, errors.Is(err, services.ErrMissingResource))

	bad := writeHarvest(t, dir, "bad_stories_1.json", `{"title": "not an array"}`)
	_, err = story.LoadFile(bad, 0)
	assert.True(t, errors.Is(err, services.ErrParse))
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()
	_, err := story.LatestFile(dir)
	assert.True(t, errors.Is(err, services.ErrMissingResource))

	writeHarvest(t, dir, "creepypasta_stories_20240101_000000.json", "[]")
	newest := writeHarvest(t, dir, "creepypasta_stories_20240301_090000.json", "[]")
	writeHarvest(t, dir, "notes.json", "[]")

	latest, err := story.LatestFile(dir)
	require.NoError(t, err)
	assert.Equal(t, newest, latest)
}

func TestNarrationTextAndSafeName(t *testing.T) {
	s := story.Story{Title: " The Thing: In/The Walls? ", Author: "night_owl", Content: "It began.  "}
	assert.Equal(t, "The Thing: In/The Walls?. By night_owl. It began.", s.NarrationText())
	assert.Equal(t, "The_Thing_InThe_Walls", s.SafeName())

	assert.Equal(t, "story", story.Story{Title: "???"}.SafeName())
	long := story.Story{Title: strings.Repeat("word ", 40)}
	assert.LessOrEqual(t, len([]rune(long.SafeName())), 60)
	assert.False(t, strings.HasSuffix(long.SafeName(), "_"))
}

func TestDetectLanguage(t *testing.T) {
	english := "I never believed in ghosts until the night my grandmother's old rocking chair started moving on its own in the empty attic above my bedroom."
	spanish := "Nunca creí en fantasmas hasta la noche en que la vieja mecedora de mi abuela empezó a moverse sola en el ático vacío sobre mi habitación."

	assert.Equal(t, "en", story.DetectLanguage(english))
	assert.Equal(t, "es", story.DetectLanguage(spanish))
	assert.Equal(t, "", story.DetectLanguage(""))
}
