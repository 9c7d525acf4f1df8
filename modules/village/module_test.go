package village_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/talegrid/grids"
	"github.com/specialistvlad/talegrid/internal/dice"
	"github.com/specialistvlad/talegrid/internal/engine"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/state"
	"github.com/specialistvlad/talegrid/internal/testutil"
	"github.com/specialistvlad/talegrid/modules/charcreation"
	"github.com/specialistvlad/talegrid/modules/common"
	"github.com/specialistvlad/talegrid/modules/intro"
	"github.com/specialistvlad/talegrid/modules/village"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func villageState() *state.SessionState {
	st := state.New()
	st.Phase = state.PhaseExploration
	st.Character = state.CharacterState{
		Name:         "Aria",
		Race:         "Elf",
		Profession:   "Warrior",
		LocationType: "forest village",
		Location:     "Silverleaf",
	}
	return st
}

func run(t *testing.T, fakes *testutil.Fakes, lines ...string) *testutil.Result {
	t.Helper()
	svc := fakes.Services()
	defs := testutil.Compile(t, grids.FS,
		&common.Module{},
		&intro.Module{Services: svc},
		&charcreation.Module{Services: svc},
		&village.Module{Services: svc},
	)
	return testutil.Run(t, defs[grids.Village], villageState(), lines...)
}

func TestVillage_LoopUntilDungeon(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Classifier = testutil.NewClassifier(intent.LookAround, intent.Talking, intent.GoToDungeon)

	res := run(t, fakes, "I look around", "I talk to the innkeeper", "I head for the dungeon")
	require.NoError(t, res.Err)

	assert.Equal(t, []string{
		"basic_question", "basic_question_input", "describe_village",
		"basic_question", "basic_question_input", "talking_like_npc",
		"basic_question", "basic_question_input",
	}, res.Path())

	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, "dungeon_gate", last.Next)
	assert.True(t, last.Terminal)

	require.Len(t, res.State.SystemMessages, 5)
	assert.True(t, strings.HasPrefix(res.State.LastSystemMessage(), "[basic_question]"),
		"nothing is narrated after the terminal transition")
	assert.Equal(t, 3, res.State.QuestionTime)
}

func TestVillage_OtherActions(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Classifier = testutil.NewClassifier(intent.Other, "SING", intent.GoToDungeon)

	res := run(t, fakes, "I sing a song", "I dance", "dungeon")
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Visits("answer_to_other"), "labels outside the set fall back to OTHER")
}

func TestAnswerToOther_RecallsVillageLore(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Classifier = testutil.NewClassifier(intent.Other, intent.Other, intent.GoToDungeon)

	res := run(t, fakes, "where is the Gilded Goose?", "I sing a song", "dungeon")
	require.NoError(t, res.Err)

	var facts [][]string
	for _, p := range fakes.Narrator.Prompts() {
		if p.Topic == "answer_to_other" {
			facts = append(facts, p.Facts)
		}
	}
	require.Len(t, facts, 2)
	assert.Equal(t, []string{"Millbrook: Millbrook has a water mill and the Gilded Goose inn."}, facts[0])
	assert.Empty(t, facts[1], "nothing in the lore matches")
}

func TestVillage_KeywordClassifier(t *testing.T) {
	fakes := testutil.NewFakes()
	svc := fakes.Services()
	svc.Classifier = intent.NewKeyword()
	defs := testutil.Compile(t, grids.FS,
		&common.Module{},
		&intro.Module{Services: svc},
		&charcreation.Module{Services: svc},
		&village.Module{Services: svc},
	)

	res := testutil.Run(t, defs[grids.Village], villageState(), "let me look around", "I go down into the dungeon")
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Visits("describe_village"))
	assert.Equal(t, 2, res.Visits("basic_question"))
}

func TestTalkingLikeNPC_RollsDisposition(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Dice = dice.NewFixed(18)
	fakes.Classifier = testutil.NewClassifier(intent.Talking, intent.GoToDungeon)

	res := run(t, fakes, "hello there", "dungeon")
	require.NoError(t, res.Err)

	var facts []string
	for _, p := range fakes.Narrator.Prompts() {
		if p.Topic == "talking_like_npc" {
			facts = append(facts, p.Facts...)
		}
	}
	assert.Equal(t, []string{"The villager is friendly (d20 roll: 18)"}, facts)
	assert.Contains(t, res.State.GameContext, "Talked with a friendly villager")
}

func TestDisposition(t *testing.T) {
	tests := []struct {
		roll int
		want string
	}{
		{1, "hostile"},
		{5, "hostile"},
		{6, "neutral"},
		{14, "neutral"},
		{15, "friendly"},
		{20, "friendly"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, village.Disposition(tt.roll), "roll %d", tt.roll)
	}
}

func TestVillage_ClassifierOutageIsANodeFailure(t *testing.T) {
	fakes := testutil.NewFakes()
	unavailable := errors.New("classifier service unavailable")
	fakes.Classifier.Err = unavailable

	res := run(t, fakes, "I look around")

	var nodeErr *engine.NodeExecutionError
	require.ErrorAs(t, res.Err, &nodeErr)
	assert.Equal(t, grids.Village, nodeErr.Graph)
	assert.Equal(t, "basic_question_input", nodeErr.Node)

	var svcErr *intent.ServiceError
	require.ErrorAs(t, res.Err, &svcErr)
	assert.ErrorIs(t, res.Err, unavailable)

	var routerErr *engine.RouterError
	assert.False(t, errors.As(res.Err, &routerErr))
}
