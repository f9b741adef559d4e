package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog bundles every content registry loaded from a content directory.
type Catalog struct {
	Weapons      *Registry[WeaponDef]
	Armour       *Registry[ArmourDef]
	Enemies      *Registry[EnemyDef]
	Skills       *Registry[SkillDef]
	Items        *Registry[ItemDef]
	Summons      *Registry[SummonDef]
	PartyMembers *Registry[PartyMemberDef]
	LootTables   *Registry[LootTableDef]

	KnowledgeRules   KnowledgeRulesDef
	KnowledgeEntries []KnowledgeEntryDef
}

// NewCatalog creates a Catalog with empty registries and default
// knowledge rules.
func NewCatalog() *Catalog {
	return &Catalog{
		Weapons:        NewRegistry[WeaponDef]("weapon"),
		Armour:         NewRegistry[ArmourDef]("armour"),
		Enemies:        NewRegistry[EnemyDef]("enemy"),
		Skills:         NewRegistry[SkillDef]("skill"),
		Items:          NewRegistry[ItemDef]("item"),
		Summons:        NewRegistry[SummonDef]("summon"),
		PartyMembers:   NewRegistry[PartyMemberDef]("party member"),
		LootTables:     NewRegistry[LootTableDef]("loot table"),
		KnowledgeRules: DefaultKnowledgeRules(),
	}
}

// DefaultKnowledgeRules returns the disclosure policy used when the
// content directory does not provide one.
func DefaultKnowledgeRules() KnowledgeRulesDef {
	return KnowledgeRulesDef{
		Tier1Kills: 1,
		Tier2Kills: 5,
		Tier3Kills: 15,
		HPVisibilityByTier: map[int]string{
			0: "HIDDEN",
			1: "STATIC_RANGE",
			2: "REALTIME",
			3: "REALTIME",
		},
	}
}

// contentFile is the on-disk shape of one content YAML file. Each file may
// carry any subset of kinds; a directory is usually split one kind per file.
type contentFile struct {
	Weapons          []WeaponDef         `yaml:"weapons"`
	Armour           []ArmourDef         `yaml:"armour"`
	Enemies          []EnemyDef          `yaml:"enemies"`
	Skills           []SkillDef          `yaml:"skills"`
	Items            []ItemDef           `yaml:"items"`
	Summons          []SummonDef         `yaml:"summons"`
	PartyMembers     []PartyMemberDef    `yaml:"party_members"`
	LootTables       []LootTableDef      `yaml:"loot_tables"`
	KnowledgeRules   *KnowledgeRulesDef  `yaml:"knowledge_rules"`
	KnowledgeEntries []KnowledgeEntryDef `yaml:"knowledge_entries"`
}

// LoadDirectory reads every *.yaml file in dir into a Catalog and
// cross-validates references between kinds.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Catalog, or an error if any file fails
// to parse or any definition references a missing id.
func LoadDirectory(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var file contentFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := cat.merge(&file); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) merge(file *contentFile) error {
	for _, def := range file.Weapons {
		if err := c.Weapons.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.Armour {
		if err := c.Armour.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.Enemies {
		if err := c.Enemies.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.Skills {
		if err := c.Skills.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.Items {
		if err := c.Items.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.Summons {
		if err := c.Summons.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.PartyMembers {
		if err := c.PartyMembers.Register(def.ID, def); err != nil {
			return err
		}
	}
	for _, def := range file.LootTables {
		if err := c.LootTables.Register(def.ID, def); err != nil {
			return err
		}
	}
	if file.KnowledgeRules != nil {
		c.KnowledgeRules = *file.KnowledgeRules
	}
	c.KnowledgeEntries = append(c.KnowledgeEntries, file.KnowledgeEntries...)
	return nil
}

// Validate cross-checks references between registries: enemy weapons,
// armour, skills, and group members; loot table items; party member
// equipment; knowledge entry members and keys.
func (c *Catalog) Validate() error {
	for _, id := range c.Enemies.IDs() {
		def, _ := c.Enemies.Get(id)
		for _, wid := range def.WeaponIDs {
			if !c.Weapons.Has(wid) {
				return fmt.Errorf("enemy %q references unknown weapon %q", id, wid)
			}
		}
		if def.ArmourID != "" && !c.Armour.Has(def.ArmourID) {
			return fmt.Errorf("enemy %q references unknown armour %q", id, def.ArmourID)
		}
		for slot, aid := range def.ArmourSlots {
			if !c.Armour.Has(aid) {
				return fmt.Errorf("enemy %q slot %q references unknown armour %q", id, slot, aid)
			}
		}
		for _, sid := range def.SkillIDs {
			if !c.Skills.Has(sid) {
				return fmt.Errorf("enemy %q references unknown skill %q", id, sid)
			}
		}
		for _, mid := range def.EnemyIDs {
			member, err := c.Enemies.Get(mid)
			if err != nil {
				return fmt.Errorf("enemy group %q references unknown enemy %q", id, mid)
			}
			if member.IsGroup() {
				return fmt.Errorf("enemy group %q may not nest group %q", id, mid)
			}
		}
	}
	for _, id := range c.LootTables.IDs() {
		def, _ := c.LootTables.Get(id)
		if err := def.Validate(); err != nil {
			return err
		}
		for _, drop := range def.Drops {
			if !c.Items.Has(drop.ItemID) {
				return fmt.Errorf("loot table %q references unknown item %q", id, drop.ItemID)
			}
		}
	}
	for _, id := range c.PartyMembers.IDs() {
		def, _ := c.PartyMembers.Get(id)
		for _, wid := range def.WeaponIDs {
			if !c.Weapons.Has(wid) {
				return fmt.Errorf("party member %q references unknown weapon %q", id, wid)
			}
		}
		for slot, aid := range def.ArmourSlots {
			if !c.Armour.Has(aid) {
				return fmt.Errorf("party member %q slot %q references unknown armour %q", id, slot, aid)
			}
		}
	}
	for i, entry := range c.KnowledgeEntries {
		if entry.MemberID != "" && !c.PartyMembers.Has(entry.MemberID) {
			return fmt.Errorf("knowledge entry %d references unknown party member %q", i, entry.MemberID)
		}
	}
	if err := validateKnowledgeRules(c.KnowledgeRules); err != nil {
		return err
	}
	return nil
}

func validateKnowledgeRules(rules KnowledgeRulesDef) error {
	if rules.Tier1Kills < 1 {
		return fmt.Errorf("knowledge rules: tier1_kills must be >= 1, got %d", rules.Tier1Kills)
	}
	if rules.Tier2Kills < rules.Tier1Kills {
		return fmt.Errorf("knowledge rules: tier2_kills (%d) must be >= tier1_kills (%d)", rules.Tier2Kills, rules.Tier1Kills)
	}
	if rules.Tier3Kills < rules.Tier2Kills {
		return fmt.Errorf("knowledge rules: tier3_kills (%d) must be >= tier2_kills (%d)", rules.Tier3Kills, rules.Tier2Kills)
	}
	for tier, mode := range rules.HPVisibilityByTier {
		if tier < 0 || tier > 3 {
			return fmt.Errorf("knowledge rules: tier %d out of range 0-3", tier)
		}
		switch mode {
		case "HIDDEN", "STATIC_RANGE", "REALTIME":
		default:
			return fmt.Errorf("knowledge rules: tier %d has unknown visibility mode %q", tier, mode)
		}
	}
	return nil
}
