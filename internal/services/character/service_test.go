package character_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	mockdice "github.com/KirkDiggler/dnd-sheet/internal/dice/mock"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
	mockprompt "github.com/KirkDiggler/dnd-sheet/internal/prompt/mock"
	mockcharacters "github.com/KirkDiggler/dnd-sheet/internal/repositories/characters/mock"
	charService "github.com/KirkDiggler/dnd-sheet/internal/services/character"
	"github.com/KirkDiggler/dnd-sheet/internal/testutils"
	mockuuid "github.com/KirkDiggler/dnd-sheet/internal/uuid/mock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *mockcharacters.MockRepository
	mockUUID *mockuuid.MockGenerator
	service  charService.Service
	ctx      context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = mockcharacters.NewMockRepository(s.ctrl)
	s.mockUUID = mockuuid.NewMockGenerator(s.ctrl)
	s.service = charService.NewService(&charService.ServiceConfig{
		Repository:    s.mockRepo,
		UUIDGenerator: s.mockUUID,
		Logger:        zaptest.NewLogger(s.T()),
	})
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

// expectSaveOnce captures the single record written by the call under test
func (s *ServiceTestSuite) expectSaveOnce() *character.Record {
	saved := new(character.Record)
	s.mockRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec character.Record) error {
			*saved = rec
			return nil
		}).
		Times(1)
	return saved
}

func fighterAnswers(level string) []string {
	return []string{
		level, "Human", "Fighter", "Soldier",
		"15", "13", "14", "10", "12", "8",
		"Athletics", "Perception", "Survival",
	}
}

func (s *ServiceTestSuite) TestSetup_PersistsOnce() {
	s.mockRepo.EXPECT().Get(s.ctx, "Tordek_Stonefist").
		Return(nil, dnderr.NotFoundf("character Tordek_Stonefist not found"))
	s.mockUUID.EXPECT().New().Return("id-1")
	saved := s.expectSaveOnce()

	chooser := mockprompt.NewManualChooser("Tordek Stonefist")
	chooser.Add(fighterAnswers("1")...)

	char, err := s.service.Setup(s.ctx, chooser)
	s.Require().NoError(err)
	s.Empty(chooser.Remaining())

	s.Equal("id-1", char.ID)
	s.Equal("Tordek_Stonefist", char.Slug)
	s.Equal(1, char.Level)
	s.Equal(16, char.Scores[shared.AttributeStrength])
	s.Equal(9, char.Scores[shared.AttributeCharisma])
	s.Equal(5, char.Stats[shared.AttributeStrength.Stat()])
	s.Equal(4, char.Stats[shared.AttributeConstitution.Stat()])
	s.Equal(5, char.Stats[shared.SkillAthletics.Stat()])
	s.Equal(3, char.Stats[shared.SkillPerception.Stat()])
	s.Equal(2, char.Stats[shared.SkillStealth.Stat()])

	// Athletics came from the background, so picking it again was refused
	s.Require().Len(chooser.Warnings, 1)
	s.Contains(chooser.Warnings[0].Error(), "already proficient in Athletics")

	s.Equal("id-1", (*saved)[character.FieldID])
	s.Equal("1", (*saved)[character.FieldLevel])
}

func (s *ServiceTestSuite) TestSetup_BulkRunPersistsOnce() {
	s.mockRepo.EXPECT().Get(s.ctx, "Regdar").
		Return(nil, dnderr.NotFoundf("character Regdar not found"))
	s.mockUUID.EXPECT().New().Return("id-2")
	saved := s.expectSaveOnce()

	chooser := mockprompt.NewManualChooser("Regdar")
	chooser.Add(fighterAnswers("4")...)
	chooser.Add("Strength", "Strength")

	char, err := s.service.Setup(s.ctx, chooser)
	s.Require().NoError(err)

	s.Equal(4, char.Level)
	s.Equal(18, char.Scores[shared.AttributeStrength])
	s.Equal(6, char.Stats[shared.AttributeStrength.Stat()])
	s.Equal("4", (*saved)[character.FieldLevel])
}

func (s *ServiceTestSuite) TestSetup_ShowsRolledScores() {
	roller := mockdice.NewManualMockRoller()
	rolls := make([]int, 0, 24)
	for range 6 {
		rolls = append(rolls, 6, 6, 6, 1)
	}
	roller.SetRolls(rolls)

	svc := charService.NewService(&charService.ServiceConfig{
		Repository:    s.mockRepo,
		UUIDGenerator: s.mockUUID,
		Roller:        roller,
	})
	s.mockRepo.EXPECT().Get(s.ctx, "Regdar").
		Return(nil, dnderr.NotFoundf("character Regdar not found"))
	s.mockUUID.EXPECT().New().Return("id-3")
	s.expectSaveOnce()

	chooser := mockprompt.NewManualChooser("Regdar")
	chooser.Add(fighterAnswers("1")...)

	_, err := svc.Setup(s.ctx, chooser)
	s.Require().NoError(err)
	s.Contains(chooser.Titles, "Strength score (rolled: 18, 18, 18, 18, 18, 18)")
}

func (s *ServiceTestSuite) TestSetup_RejectsTakenAndEmptyNames() {
	s.mockRepo.EXPECT().Get(s.ctx, "Jozan").
		Return(testutils.CreateTestRecord(s.T(), "id-1", "Jozan"), nil)
	s.mockRepo.EXPECT().Get(s.ctx, "Broken").
		Return(nil, dnderr.CorruptRecordf("character Broken is corrupt"))
	s.mockRepo.EXPECT().Get(s.ctx, "Mialee").
		Return(nil, dnderr.NotFoundf("character Mialee not found"))
	s.mockUUID.EXPECT().New().Return("id-4")

	// setup stops at the level prompt once the script runs out
	chooser := mockprompt.NewManualChooser("!!!", "Jozan", "Broken", "Mialee")

	_, err := s.service.Setup(s.ctx, chooser)
	s.Error(err)
	s.Require().Len(chooser.Warnings, 3)
	s.True(dnderr.IsInvalidSelection(chooser.Warnings[0]))
	s.True(dnderr.IsAlreadyExists(chooser.Warnings[1]))
	s.Contains(chooser.Warnings[1].Error(), "Jozan already exists")
	s.True(dnderr.IsAlreadyExists(chooser.Warnings[2]))
	s.Contains(chooser.Warnings[2].Error(), "Broken already exists")
}

func (s *ServiceTestSuite) TestSetup_RepositoryFailure() {
	s.mockRepo.EXPECT().Get(s.ctx, "Jozan").Return(nil, errors.New("redis down"))

	_, err := s.service.Setup(s.ctx, mockprompt.NewManualChooser("Jozan"))
	s.Error(err)
	s.Contains(err.Error(), "failed to check name")
}

func (s *ServiceTestSuite) TestLevelUp() {
	s.mockRepo.EXPECT().Get(s.ctx, "Jozan").
		Return(testutils.CreateTestRecord(s.T(), "id-1", "Jozan"), nil)
	saved := s.expectSaveOnce()

	char, err := s.service.LevelUp(s.ctx, "Jozan", mockprompt.NewManualChooser())
	s.Require().NoError(err)
	s.Equal(2, char.Level)
	s.Equal("2", (*saved)[character.FieldLevel])
	s.Equal("id-1", (*saved)[character.FieldID])
}

func (s *ServiceTestSuite) TestLevelUp_NotFound() {
	s.mockRepo.EXPECT().Get(s.ctx, "Nobody").
		Return(nil, dnderr.NotFoundf("character Nobody not found"))

	_, err := s.service.LevelUp(s.ctx, "Nobody", mockprompt.NewManualChooser())
	s.True(dnderr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestAdvance_PersistOnlyWhenAsked() {
	char := testutils.CreateTestCharacter(s.T(), "id-1", "Jozan")

	s.Require().NoError(s.service.Advance(s.ctx, char, 3, mockprompt.NewManualChooser(), false))
	s.Equal(3, char.Level)

	saved := s.expectSaveOnce()
	s.Require().NoError(s.service.Advance(s.ctx, char, 5, mockprompt.NewManualChooser("Strength", "Dexterity"), true))
	s.Equal("5", (*saved)[character.FieldLevel])
}

func (s *ServiceTestSuite) TestAdvance_InvalidTarget() {
	char := testutils.CreateTestCharacter(s.T(), "id-1", "Jozan")

	err := s.service.Advance(s.ctx, char, rulebook.MaxLevel+1, mockprompt.NewManualChooser(), true)
	s.True(dnderr.IsInvalidArgument(err))
	s.Equal(1, char.Level)
}

func (s *ServiceTestSuite) TestLoad_CorruptRecord() {
	s.mockRepo.EXPECT().Get(s.ctx, "Broken").
		Return(character.Record{character.FieldName: "Broken"}, nil)

	_, err := s.service.Load(s.ctx, "Broken")
	s.True(dnderr.IsCorruptRecord(err))
}

func (s *ServiceTestSuite) TestLoad_AssignsMissingID() {
	rec := testutils.CreateTestRecord(s.T(), "", "Mialee")
	delete(rec, character.FieldID)
	s.mockRepo.EXPECT().Get(s.ctx, "Mialee").Return(rec, nil)
	s.mockUUID.EXPECT().New().Return("generated-id")

	char, err := s.service.Load(s.ctx, "Mialee")
	s.Require().NoError(err)
	s.Equal("generated-id", char.ID)
}

func (s *ServiceTestSuite) TestSave_Nil() {
	s.True(dnderr.IsInvalidArgument(s.service.Save(s.ctx, nil)))
}

func (s *ServiceTestSuite) TestSave_BrokenInvariant() {
	char := testutils.CreateTestCharacter(s.T(), "id-1", "Jozan")
	char.Expertise.Add(shared.SkillArcana.Stat())

	err := s.service.Save(s.ctx, char)
	s.Equal(dnderr.CodeInternal, dnderr.GetCode(err))
}

func (s *ServiceTestSuite) TestReset_KeepsIdentity() {
	s.mockRepo.EXPECT().Get(s.ctx, "Jozan").
		Return(testutils.CreateTestRecord(s.T(), "id-1", "Jozan"), nil)
	saved := s.expectSaveOnce()

	chooser := mockprompt.NewManualChooser(
		"2", "Dwarf", "Cleric", "Acolyte",
		"10", "10", "10", "10", "16", "12",
		"History", "Medicine",
		"Life Domain",
	)

	char, err := s.service.Reset(s.ctx, "Jozan", chooser)
	s.Require().NoError(err)
	s.Empty(chooser.Remaining())

	s.Equal("id-1", char.ID)
	s.Equal("Jozan", char.Name)
	s.Equal("cleric", char.Class)
	s.Equal(2, char.Level)
	s.False(char.IsProficient(shared.SkillAthletics.Stat()))
	s.True(char.IsProficient(shared.SkillReligion.Stat()))

	s.Equal("id-1", (*saved)[character.FieldID])
	s.Equal("cleric", (*saved)[character.FieldClass])
}

func (s *ServiceTestSuite) TestDelete() {
	s.mockRepo.EXPECT().Delete(s.ctx, "Jozan").Return(nil)
	s.NoError(s.service.Delete(s.ctx, "Jozan"))
}

func (s *ServiceTestSuite) TestList_ReportsBrokenEntries() {
	s.mockRepo.EXPECT().List(s.ctx).Return([]string{"Alpha", "Broken", "Gone"}, nil)
	s.mockRepo.EXPECT().Get(gomock.Any(), "Alpha").
		Return(testutils.CreateTestRecord(s.T(), "id-a", "Alpha"), nil)
	s.mockRepo.EXPECT().Get(gomock.Any(), "Broken").
		Return(character.Record{character.FieldName: "Broken"}, nil)
	s.mockRepo.EXPECT().Get(gomock.Any(), "Gone").
		Return(nil, dnderr.NotFoundf("character Gone not found"))

	entries, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)

	s.Equal("Alpha", entries[0].Slug)
	s.Require().NotNil(entries[0].Character)
	s.NoError(entries[0].Err)

	s.Equal("Broken", entries[1].Slug)
	s.Nil(entries[1].Character)
	s.True(dnderr.IsCorruptRecord(entries[1].Err))

	s.Equal("Gone", entries[2].Slug)
	s.True(dnderr.IsNotFound(entries[2].Err))
}

func (s *ServiceTestSuite) TestList_StorageFailure() {
	s.mockRepo.EXPECT().List(s.ctx).Return([]string{"Alpha"}, nil)
	s.mockRepo.EXPECT().Get(gomock.Any(), "Alpha").Return(nil, errors.New("redis down"))

	_, err := s.service.List(s.ctx)
	s.Error(err)
	s.Contains(err.Error(), "failed to load Alpha")
}

func (s *ServiceTestSuite) TestNewService_RequiresRepository() {
	s.Panics(func() { charService.NewService(&charService.ServiceConfig{}) })
}
