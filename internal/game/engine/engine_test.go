package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/game/dice"
	"github.com/torchlight-games/chronicler/internal/game/engine"
	"github.com/torchlight-games/chronicler/internal/game/entity"
	"github.com/torchlight-games/chronicler/internal/storage/memory"
)

// fixedSource returns predetermined die faces in order. HitCheck draws
// consume one value interpreted as the percent roll in [1, 100].
type fixedSource struct {
	mu     sync.Mutex
	values []int
	idx    int
}

func (f *fixedSource) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.values) {
		panic("fixedSource exhausted")
	}
	v := f.values[f.idx]
	f.idx++
	return v - 1
}

func intp(v int) *int { return &v }

func newTestEngine(t *testing.T, src dice.Source) *engine.Engine {
	t.Helper()
	roller := dice.NewLoggedRoller(src, zap.NewNop())
	return engine.New(memory.NewCampaigns(), roller, zap.NewNop())
}

func beginTestCampaign(t *testing.T, eng *engine.Engine) *entity.Campaign {
	t.Helper()
	c, err := eng.BeginCampaign(context.Background(), engine.BeginCampaignParams{
		Name:          "The Lost Kingdom",
		PlayerName:    "Aragorn",
		PlayerWeapons: map[string]string{"sword": "1d8"},
	})
	require.NoError(t, err)
	return c
}

// TestBeginCampaign verifies slug derivation and the player health default.
func TestBeginCampaign(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())

	c := beginTestCampaign(t, eng)
	assert.Equal(t, "the-lost-kingdom", c.ID, "campaign ID must be the slug of its name")
	assert.Equal(t, "Aragorn", c.Player.Name)
	assert.Equal(t, 20, c.Player.Health, "omitted player_health defaults to 20")
	assert.Equal(t, 20, c.Player.MaxHealth)
}

// TestBeginCampaign_Validation verifies input checks happen before any
// repository access.
func TestBeginCampaign_Validation(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()

	_, err := eng.BeginCampaign(ctx, engine.BeginCampaignParams{PlayerName: "Aragorn"})
	assert.ErrorIs(t, err, engine.ErrValidation, "missing name")

	_, err = eng.BeginCampaign(ctx, engine.BeginCampaignParams{Name: "Quest"})
	assert.ErrorIs(t, err, engine.ErrValidation, "missing player_name")

	_, err = eng.BeginCampaign(ctx, engine.BeginCampaignParams{
		Name: "Quest", PlayerName: "Aragorn", PlayerHealth: -5,
	})
	assert.ErrorIs(t, err, engine.ErrValidation, "negative player_health")

	_, err = eng.BeginCampaign(ctx, engine.BeginCampaignParams{Name: "!!!", PlayerName: "Aragorn"})
	assert.ErrorIs(t, err, engine.ErrValidation, "name yielding an empty slug")
}

// TestBeginCampaign_Duplicate verifies slug collisions are rejected.
func TestBeginCampaign_Duplicate(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	beginTestCampaign(t, eng)

	_, err := eng.BeginCampaign(context.Background(), engine.BeginCampaignParams{
		Name:       "The LOST Kingdom", // same slug, different display name
		PlayerName: "Boromir",
	})
	assert.ErrorIs(t, err, engine.ErrDuplicateCampaign)
}

// TestCreateNPC verifies the hit chance default and the read round trip.
func TestCreateNPC(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	npc, err := eng.CreateNPC(ctx, engine.CreateNPCParams{
		CampaignID: c.ID,
		Name:       "Bilbo Baggins",
		Health:     15,
		Weapons:    map[string]string{"dagger": "1d4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "bilbo-baggins", npc.ID)
	assert.Equal(t, 50, npc.HitChance, "omitted hit_chance defaults to 50")

	got, err := eng.GetNPC(ctx, c.ID, "Bilbo Baggins")
	require.NoError(t, err)
	assert.Equal(t, npc, got)

	got, err = eng.GetNPC(ctx, c.ID, "bilbo-baggins")
	require.NoError(t, err)
	assert.Equal(t, npc, got, "lookup by ID and by name must agree")
}

// TestCreateNPC_HitChance verifies that the 50 default applies only
// when hit_chance is omitted: an explicit value is stored as given and
// an explicit zero is rejected, never rewritten.
func TestCreateNPC_HitChance(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	npc, err := eng.CreateNPC(ctx, engine.CreateNPCParams{
		CampaignID: c.ID, Name: "Sniper", Health: 5, HitChance: intp(35),
	})
	require.NoError(t, err)
	assert.Equal(t, 35, npc.HitChance, "explicit hit_chance is stored as given")

	_, err = eng.CreateNPC(ctx, engine.CreateNPCParams{
		CampaignID: c.ID, Name: "Scarecrow", Health: 5, HitChance: intp(0),
	})
	assert.ErrorIs(t, err, engine.ErrValidation, "explicit zero is outside [1, 100]")

	_, err = eng.GetNPC(ctx, c.ID, "Scarecrow")
	assert.ErrorIs(t, err, engine.ErrEntityNotFound, "nothing persists on a rejected hit_chance")
}

// TestCreateNPC_Errors verifies validation and duplicate handling.
func TestCreateNPC_Errors(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Ghost", Health: 0})
	assert.ErrorIs(t, err, engine.ErrValidation, "non-positive health")

	_, err = eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Ghost", Health: 5, HitChance: intp(101)})
	assert.ErrorIs(t, err, engine.ErrValidation, "hit_chance above 100")

	_, err = eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: "absent", Name: "Ghost", Health: 5})
	assert.ErrorIs(t, err, engine.ErrCampaignNotFound)

	_, err = eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bilbo", Health: 5})
	require.NoError(t, err)
	_, err = eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "bilbo", Health: 5})
	assert.ErrorIs(t, err, engine.ErrDuplicateEntity, "same slug must collide")
}

// TestCreateBestiaryEntry verifies the threat level contract: mandatory,
// validated, and the only source of a creature's hit chance.
func TestCreateBestiaryEntry(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	entry, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID:  c.ID,
		Name:        "Giant Rat",
		ThreatLevel: entity.ThreatNegligible,
		Health:      7,
		Weapons:     map[string]string{"bite": "1d4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "giant-rat", entry.ID)
	assert.Equal(t, entity.ThreatNegligible, entry.ThreatLevel)

	_, err = eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Wolf", ThreatLevel: "apocalyptic", Health: 10,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidThreatLevel, "unrecognized level must never default")

	_, err = eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Wolf", Health: 10,
	})
	assert.ErrorIs(t, err, engine.ErrValidation, "threat_level is mandatory")

	_, err = eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Wolf", ThreatLevel: entity.ThreatLow, Health: 10, HitChance: 60,
	})
	assert.ErrorIs(t, err, engine.ErrValidation, "an explicit hit_chance is rejected")

	_, err = eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "giant rat", ThreatLevel: entity.ThreatLow, Health: 3,
	})
	assert.ErrorIs(t, err, engine.ErrDuplicateEntity)
}

// TestAttack_HitThenDamage verifies the fixed resolution order: the hit
// check consumes the first draw, the damage roll the rest.
func TestAttack_HitThenDamage(t *testing.T) {
	// Draw 30 <= 50 hits; then 1d8 rolls a 5.
	eng := newTestEngine(t, &fixedSource{values: []int{30, 5}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Giant Rat", ThreatLevel: entity.ThreatNegligible, Health: 7,
	})
	require.NoError(t, err)

	result, err := eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat", Weapon: "sword",
	})
	require.NoError(t, err)

	assert.True(t, result.Hit)
	assert.Equal(t, 5, result.Damage)
	assert.Equal(t, "Aragorn", result.Attacker)
	assert.Equal(t, "Giant Rat", result.Target)
	assert.Equal(t, 2, result.TargetHealth)
	assert.Equal(t, entity.StatusActive, result.TargetStatus)

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, session, "first attack must open a combat session")
	assert.Len(t, session.Participants, 2, "both sides join on first reference")

	rat, ok := session.Participant("Giant Rat")
	require.True(t, ok)
	assert.Equal(t, 2, rat.Health)
	assert.Equal(t, 25, rat.HitChance, "creature hit chance is derived from negligible threat")
}

// TestAttack_Miss verifies a miss deals no damage but the participant
// spawns still persist.
func TestAttack_Miss(t *testing.T) {
	// Draw 99 > 50 misses; no damage draw is consumed.
	eng := newTestEngine(t, &fixedSource{values: []int{99}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Giant Rat", ThreatLevel: entity.ThreatNegligible, Health: 7,
	})
	require.NoError(t, err)

	result, err := eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat", Weapon: "sword",
	})
	require.NoError(t, err)
	assert.False(t, result.Hit)
	assert.Zero(t, result.Damage, "damage is always 0 on a miss")
	assert.Equal(t, 7, result.TargetHealth)

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, session.Participants, 2, "spawns persist even on a miss")
}

// TestAttack_UnarmedDefault verifies an omitted weapon resolves to
// unarmed combat with 1d4 damage.
func TestAttack_UnarmedDefault(t *testing.T) {
	// Hit (draw 10 vs 50), then 1d4 rolls a 3.
	eng := newTestEngine(t, &fixedSource{values: []int{10, 3}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Giant Rat", ThreatLevel: entity.ThreatNegligible, Health: 7,
	})
	require.NoError(t, err)

	result, err := eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat",
	})
	require.NoError(t, err)
	assert.Equal(t, "unarmed", result.Weapon)
	assert.Equal(t, 3, result.Damage)
}

// TestAttack_UnknownWeapon verifies an unmapped weapon name fails
// without consuming dice or changing state.
func TestAttack_UnknownWeapon(t *testing.T) {
	eng := newTestEngine(t, &fixedSource{values: nil})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Giant Rat", ThreatLevel: entity.ThreatNegligible, Health: 7,
	})
	require.NoError(t, err)

	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat", Weapon: "ballista",
	})
	assert.ErrorIs(t, err, engine.ErrUnknownWeapon)
}

// TestAttack_CreatureHasNoUnarmedFallback verifies creatures attack only
// with weapons their template defines.
func TestAttack_CreatureHasNoUnarmedFallback(t *testing.T) {
	eng := newTestEngine(t, &fixedSource{values: nil})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Gelatinous Cube", ThreatLevel: entity.ThreatModerate, Health: 30,
	})
	require.NoError(t, err)

	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Gelatinous Cube", Target: "Aragorn",
	})
	assert.ErrorIs(t, err, engine.ErrUnknownWeapon,
		"a weaponless creature cannot fall back to unarmed combat")
}

// TestAttack_KillSyncsSourceRecord verifies lethal damage marks the
// participant dead and mirrors health to the NPC record.
func TestAttack_KillSyncsSourceRecord(t *testing.T) {
	// Hit, then 1d8 rolls an 8 against 3 health.
	eng := newTestEngine(t, &fixedSource{values: []int{1, 8}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{
		CampaignID: c.ID, Name: "Bandit", Health: 3,
	})
	require.NoError(t, err)

	result, err := eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Bandit", Weapon: "sword",
	})
	require.NoError(t, err)
	assert.True(t, result.Hit)
	assert.Equal(t, 0, result.TargetHealth, "health floors at zero")
	assert.Equal(t, entity.StatusDead, result.TargetStatus)

	npc, err := eng.GetNPC(ctx, c.ID, "Bandit")
	require.NoError(t, err)
	assert.Equal(t, 0, npc.Health, "participant health syncs back to the NPC record")
}

// TestAttack_TerminalParticipants verifies dead participants can neither
// attack nor be attacked, but remain in the session.
func TestAttack_TerminalParticipants(t *testing.T) {
	eng := newTestEngine(t, &fixedSource{values: []int{1, 8, 1, 1}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bandit", Health: 3})
	require.NoError(t, err)

	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Bandit", Weapon: "sword",
	})
	require.NoError(t, err)

	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Bandit", Weapon: "sword",
	})
	assert.ErrorIs(t, err, engine.ErrInvalidTarget, "a dead participant cannot be attacked")

	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Bandit", Target: "Aragorn",
	})
	assert.ErrorIs(t, err, engine.ErrInvalidAttacker, "a dead participant cannot attack")

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	_, ok := session.Participant("Bandit")
	assert.True(t, ok, "terminal participants are retained in the session")
}

// TestAttack_UnknownEntity verifies a name matching nothing fails with
// ErrEntityNotFound.
func TestAttack_UnknownEntity(t *testing.T) {
	eng := newTestEngine(t, &fixedSource{values: nil})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Nobody",
	})
	assert.ErrorIs(t, err, engine.ErrEntityNotFound)
}

// TestRemoveFromCombat verifies the terminal transition, removal
// idempotence, and the dead/not-found distinction.
func TestRemoveFromCombat(t *testing.T) {
	// One miss to spawn both sides without damage.
	eng := newTestEngine(t, &fixedSource{values: []int{99}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bandit", Health: 8})
	require.NoError(t, err)
	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Bandit",
	})
	require.NoError(t, err)

	err = eng.RemoveFromCombat(ctx, c.ID, "Bandit", "vaporized")
	assert.ErrorIs(t, err, engine.ErrValidation, "reason must be terminal")

	require.NoError(t, eng.RemoveFromCombat(ctx, c.ID, "Bandit", entity.StatusFled))

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	bandit, ok := session.Participant("Bandit")
	require.True(t, ok)
	assert.Equal(t, entity.StatusFled, bandit.Status)
	assert.Equal(t, 8, bandit.Health, "fleeing does not change health")

	err = eng.RemoveFromCombat(ctx, c.ID, "Bandit", entity.StatusFled)
	assert.ErrorIs(t, err, engine.ErrInvalidTarget, "second removal of the same name fails")

	err = eng.RemoveFromCombat(ctx, c.ID, "Nobody", entity.StatusDead)
	assert.ErrorIs(t, err, engine.ErrEntityNotFound, "a name matching nothing in the campaign")
}

// TestRemoveFromCombat_DeadZeroesHealth verifies removal with reason
// dead zeroes health and syncs the source record.
func TestRemoveFromCombat_DeadZeroesHealth(t *testing.T) {
	eng := newTestEngine(t, &fixedSource{values: []int{99}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bandit", Health: 8})
	require.NoError(t, err)
	_, err = eng.Attack(ctx, engine.AttackParams{CampaignID: c.ID, Attacker: "Aragorn", Target: "Bandit"})
	require.NoError(t, err)

	require.NoError(t, eng.RemoveFromCombat(ctx, c.ID, "Bandit", entity.StatusDead))

	npc, err := eng.GetNPC(ctx, c.ID, "Bandit")
	require.NoError(t, err)
	assert.Equal(t, 0, npc.Health)
}

// TestRemoveFromCombat_NotInSession verifies a known entity that never
// joined combat is rejected as an invalid target, not as unknown.
func TestRemoveFromCombat_NotInSession(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bilbo", Health: 15})
	require.NoError(t, err)

	err = eng.RemoveFromCombat(ctx, c.ID, "Bilbo", entity.StatusFled)
	assert.ErrorIs(t, err, engine.ErrInvalidTarget)
}

// TestSpawnEnemy verifies spawning without an attack: template health,
// derived hit chance, and duplicate rejection.
func TestSpawnEnemy(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Troll", ThreatLevel: entity.ThreatDeadly, Health: 40,
	})
	require.NoError(t, err)

	spawned, err := eng.SpawnEnemy(ctx, c.ID, "Troll")
	require.NoError(t, err)
	assert.Equal(t, entity.KindCreature, spawned.Kind)
	assert.Equal(t, 40, spawned.Health)
	assert.Equal(t, 80, spawned.HitChance, "deadly threat derives an 80 percent hit chance")
	assert.Equal(t, entity.StatusActive, spawned.Status)

	_, err = eng.SpawnEnemy(ctx, c.ID, "Troll")
	assert.ErrorIs(t, err, engine.ErrDuplicateEntity)

	_, err = eng.SpawnEnemy(ctx, c.ID, "Dragon")
	assert.ErrorIs(t, err, engine.ErrEntityNotFound)
}

// TestHealNPC verifies healing rolls the dice, clamps at maximum, and
// syncs an active participant.
func TestHealNPC(t *testing.T) {
	// Attack: hit (1), 1d8 rolls 6. Heal: 1d4 rolls 4.
	eng := newTestEngine(t, &fixedSource{values: []int{1, 6, 4}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bilbo", Health: 15})
	require.NoError(t, err)
	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Bilbo", Weapon: "sword",
	})
	require.NoError(t, err)

	healed, health, err := eng.HealNPC(ctx, c.ID, "Bilbo", "1d4")
	require.NoError(t, err)
	assert.Equal(t, 4, healed)
	assert.Equal(t, 13, health)

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	bilbo, ok := session.Participant("Bilbo")
	require.True(t, ok)
	assert.Equal(t, 13, bilbo.Health, "healing syncs to the active participant")
}

// TestHealNPC_ClampsAtMaximum verifies overheal is discarded.
func TestHealNPC_ClampsAtMaximum(t *testing.T) {
	eng := newTestEngine(t, &fixedSource{values: []int{20}})
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: "Bilbo", Health: 15})
	require.NoError(t, err)

	healed, health, err := eng.HealNPC(ctx, c.ID, "Bilbo", "1d20")
	require.NoError(t, err)
	assert.Equal(t, 0, healed, "an uninjured NPC heals nothing")
	assert.Equal(t, 15, health)
}

// TestHealNPC_Errors verifies the dice expression is validated before
// any repository access and unknown NPCs are rejected.
func TestHealNPC_Errors(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, _, err := eng.HealNPC(ctx, c.ID, "Bilbo", "0d4")
	assert.ErrorIs(t, err, dice.ErrInvalidExpression)

	_, _, err = eng.HealNPC(ctx, c.ID, "Nobody", "1d4")
	assert.ErrorIs(t, err, engine.ErrEntityNotFound)
}

// TestReads verifies list ordering, the not-found kinds, and the
// nil-session combat status.
func TestReads(t *testing.T) {
	eng := newTestEngine(t, dice.NewCryptoSource())
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	_, err := eng.GetCampaign(ctx, "absent")
	assert.ErrorIs(t, err, engine.ErrCampaignNotFound)

	_, err = eng.GetNPC(ctx, c.ID, "nobody")
	assert.ErrorIs(t, err, engine.ErrEntityNotFound)

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, session, "no combat session before the first attack")

	for _, name := range []string{"Zed", "Anna", "Mort"} {
		_, err := eng.CreateNPC(ctx, engine.CreateNPCParams{CampaignID: c.ID, Name: name, Health: 5})
		require.NoError(t, err)
	}
	npcs, err := eng.ListNPCs(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, npcs, 3)
	assert.Equal(t, "anna", npcs[0].ID)
	assert.Equal(t, "mort", npcs[1].ID)
	assert.Equal(t, "zed", npcs[2].ID)

	campaigns, err := eng.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, c.ID, campaigns[0].ID)
}

// TestAttack_EndToEnd drives a full campaign: begin, add a creature,
// land a killing blow, and verify the corpse cannot be attacked again.
func TestAttack_EndToEnd(t *testing.T) {
	// Hit check draws 1, then the 1d8 sword rolls a 4.
	eng := newTestEngine(t, &fixedSource{values: []int{1, 4}})
	ctx := context.Background()

	c, err := eng.BeginCampaign(ctx, engine.BeginCampaignParams{
		Name:          "The Lost Kingdom",
		PlayerName:    "Aragorn",
		PlayerHealth:  25,
		PlayerWeapons: map[string]string{"sword": "1d8"},
	})
	require.NoError(t, err)

	_, err = eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID:  c.ID,
		Name:        "Giant Rat",
		ThreatLevel: entity.ThreatNegligible,
		Health:      3,
		Weapons:     map[string]string{"bite": "1d4"},
	})
	require.NoError(t, err)

	result, err := eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat", Weapon: "sword",
	})
	require.NoError(t, err)
	assert.True(t, result.Hit)
	assert.Equal(t, 4, result.Damage)
	assert.Equal(t, 0, result.TargetHealth)
	assert.Equal(t, entity.StatusDead, result.TargetStatus)

	_, err = eng.Attack(ctx, engine.AttackParams{
		CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat", Weapon: "sword",
	})
	assert.ErrorIs(t, err, engine.ErrInvalidTarget)
}

// TestAttack_SeededReproducible verifies an identical seed reproduces a
// full combat sequence result-for-result.
func TestAttack_SeededReproducible(t *testing.T) {
	run := func(seed int64) []engine.AttackResult {
		eng := newTestEngine(t, dice.NewSeededSource(seed))
		ctx := context.Background()
		c := beginTestCampaign(t, eng)

		_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
			CampaignID: c.ID, Name: "Giant Rat", ThreatLevel: entity.ThreatNegligible,
			Health: 50, Weapons: map[string]string{"bite": "1d4"},
		})
		require.NoError(t, err)

		var results []engine.AttackResult
		for i := 0; i < 10; i++ {
			r, err := eng.Attack(ctx, engine.AttackParams{
				CampaignID: c.ID, Attacker: "Aragorn", Target: "Giant Rat", Weapon: "sword",
			})
			require.NoError(t, err)
			results = append(results, *r)
		}
		return results
	}

	assert.Equal(t, run(42), run(42), "same seed must reproduce the sequence")
}

// TestAttack_ConcurrentDamageSerialized verifies concurrent attacks on
// one campaign never lose damage: the target's final health equals its
// initial health minus the sum of reported damage.
func TestAttack_ConcurrentDamageSerialized(t *testing.T) {
	eng := newTestEngine(t, dice.NewSeededSource(7))
	ctx := context.Background()
	c := beginTestCampaign(t, eng)

	const initialHealth = 100_000
	_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID: c.ID, Name: "Tarrasque", ThreatLevel: entity.ThreatCertainDeath, Health: initialHealth,
	})
	require.NoError(t, err)

	const workers = 16
	const attacks = 10

	var mu sync.Mutex
	totalDamage := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < attacks; j++ {
				r, err := eng.Attack(ctx, engine.AttackParams{
					CampaignID: c.ID, Attacker: "Aragorn", Target: "Tarrasque", Weapon: "sword",
				})
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				totalDamage += r.Damage
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	session, err := eng.GetCombatStatus(ctx, c.ID)
	require.NoError(t, err)
	target, ok := session.Participant("Tarrasque")
	require.True(t, ok)
	assert.Equal(t, initialHealth-totalDamage, target.Health,
		"serialized attack resolution must never lose damage")
}
