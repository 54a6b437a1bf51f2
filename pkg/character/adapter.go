package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid JSON")

// canonicalKeys are top-level keys only the canonical schema uses.
var canonicalKeys = []string{"equipped_items", "attribute_summary", "board_progress", "companion_mastery", "abilities"}

// IsCanonical reports whether data is already in the canonical snapshot shape.
func IsCanonical(data []byte) bool {
	for _, r := range gjson.GetManyBytes(data, canonicalKeys...) {
		if r.Exists() {
			return true
		}
	}
	return false
}

// Adapt converts a snapshot in one of the older upstream shapes into the
// canonical schema. Each logical list is looked up along its known paths once,
// here, so nothing downstream re-derives fallbacks. Missing data yields zero
// values; only malformed JSON is an error.
func Adapt(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}

	root := gjson.ParseBytes(data)
	for _, wrapper := range []string{"queryResult.data", "result.data.json", "data"} {
		if r := root.Get(wrapper); r.IsObject() {
			root = r
			break
		}
	}

	snap := &Snapshot{
		Profile:          adaptProfile(root),
		AttributeSummary: adaptSummary(root),
		EquippedItems:    adaptItems(root),
		BoardProgress:    adaptBoards(root),
		CompanionMastery: adaptCompanions(root),
		Abilities:        adaptAbilities(root),
		Titles:           adaptTitles(root),
		Wings:            adaptWings(root),
	}
	return snap, nil
}

// first returns the first existing result among paths.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// firstPositive returns the first positive integer among paths.
func firstPositive(r gjson.Result, paths ...string) int {
	for _, p := range paths {
		if v := int(r.Get(p).Int()); v > 0 {
			return v
		}
	}
	return 0
}

func readStrings(r gjson.Result, fields ...string) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				out = append(out, s)
			}
			return true
		}
		if s := strings.TrimSpace(first(v, fields...).String()); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

func adaptProfile(root gjson.Result) Profile {
	p := first(root, "profile", "character")
	return Profile{
		ID:       first(p, "characterId", "id").String(),
		ServerID: first(p, "serverId", "server").String(),
		Name:     first(p, "characterName", "name").String(),
		Level:    firstPositive(p, "characterLevel", "level"),
		Class:    first(p, "className", "class", "classId").String(),
	}
}

func adaptSummary(root gjson.Result) []SummaryStat {
	var out []SummaryStat
	first(root, "stat.statList", "statList", "stats").ForEach(func(_, v gjson.Result) bool {
		name := first(v, "name", "type").String()
		if name == "" {
			return true
		}
		out = append(out, SummaryStat{
			Name:               name,
			Value:              StatValue(v.Get("value").String()),
			SecondaryBreakdown: readStrings(first(v, "statSecondList", "secondaryBreakdown"), "desc", "name"),
		})
		return true
	})
	return out
}

func adaptItems(root gjson.Result) []EquippedItem {
	var out []EquippedItem
	first(root, "itemDetails", "equipment.itemDetails", "equipment.equipmentList", "equipmentList").ForEach(func(_, v gjson.Result) bool {
		d := v.Get("detail")
		if !d.Exists() {
			d = v
		}
		item := EquippedItem{
			SlotPosition:      int(first(v, "slotPos", "slotPosition", "slot").Int()),
			EnchantLevel:      firstPositive(v, "detail.enchantLevel", "enchantLevel"),
			BreakthroughLevel: firstPositive(v, "exceedLevel", "detail.exceedLevel", "breakthroughLevel"),
			Icon:              first(v, "icon", "detail.icon").String(),
			Detail: ItemDetail{
				ID:             first(d, "id", "itemId").String(),
				Name:           d.Get("name").String(),
				Grade:          first(d, "quality", "grade").String(),
				MainStats:      adaptStats(first(d, "mainStats", "baseStats")),
				RandomStats:    adaptStats(first(d, "subStats", "randomStats")),
				SocketedStones: adaptStats(first(d, "magicStoneStat", "socketStats")),
				GodStone:       adaptGodStone(first(d, "godStoneStat", "godStone")),
				Set:            adaptSet(first(d, "set", "setInfo")),
				SourceTags:     readStrings(first(d, "sources", "sourceTags"), "name"),
			},
		}
		out = append(out, item)
		return true
	})
	return out
}

// adaptStats reads [{name, value, extra}] rows. An "extra" bracket value is
// folded back into the printed form, e.g. "1778" + "3%" -> "1778(+3%)".
func adaptStats(r gjson.Result) []Stat {
	var out []Stat
	r.ForEach(func(_, v gjson.Result) bool {
		name := first(v, "name", "type").String()
		if name == "" {
			return true
		}
		value := v.Get("value").String()
		if extra := strings.TrimSpace(v.Get("extra").String()); extra != "" && extra != "0" {
			value = fmt.Sprintf("%s(+%s)", value, strings.TrimPrefix(extra, "+"))
		}
		out = append(out, Stat{Name: name, Value: StatValue(value)})
		return true
	})
	return out
}

func adaptGodStone(r gjson.Result) *GodStone {
	if !r.Exists() {
		return nil
	}
	if r.IsArray() {
		arr := r.Array()
		if len(arr) == 0 {
			return nil
		}
		r = arr[0]
	}
	gs := &GodStone{
		Name:    r.Get("name").String(),
		Effects: readStrings(first(r, "effects", "descList"), "desc"),
	}
	if d := strings.TrimSpace(r.Get("desc").String()); d != "" {
		gs.Effects = append(gs.Effects, d)
	}
	if gs.Name == "" && len(gs.Effects) == 0 {
		return nil
	}
	return gs
}

func adaptSet(r gjson.Result) *SetInfo {
	name := r.Get("name").String()
	if name == "" {
		return nil
	}
	info := &SetInfo{Name: name}
	first(r, "bonuses", "bonusList", "tiers").ForEach(func(_, t gjson.Result) bool {
		info.Tiers = append(info.Tiers, SetTier{
			Required: int(first(t, "degree", "count", "required").Int()),
			Bonuses:  readStrings(first(t, "descriptions", "descList", "bonuses"), "desc"),
		})
		return true
	})
	return info
}

func adaptBoards(root gjson.Result) []BoardProgress {
	var out []BoardProgress
	first(root, "daevanionBoardList", "daevanion.boardList", "board.boardList").ForEach(func(_, v gjson.Result) bool {
		if !v.Get("openNodeCount").Exists() {
			return true
		}
		out = append(out, BoardProgress{
			Name:                v.Get("name").String(),
			OpenNodeCount:       int(v.Get("openNodeCount").Int()),
			TotalNodeCount:      int(v.Get("totalNodeCount").Int()),
			UnlockedNodeEffects: readStrings(first(v, "openStatEffectList", "effects"), "desc"),
		})
		return true
	})
	return out
}

func adaptCompanions(root gjson.Result) CompanionMastery {
	pet := first(root, "petInsight", "pet.insight")
	category := func(key string) *CompanionCategory {
		c := pet.Get(key)
		if !c.IsObject() {
			return nil
		}
		return &CompanionCategory{
			TotalInGame:       int(c.Get("totalInGame").Int()),
			AtLeastTier3Count: int(c.Get("atLeastLv3Count").Int()),
			AtLeastTier4Count: int(first(c, "atLeastLv4MaxCount", "atLeastLv4Count").Int()),
		}
	}
	return CompanionMastery{
		Intellect: category("intellect"),
		Feral:     category("feral"),
		Nature:    category("nature"),
		Transform: category("trans"),
	}
}

func adaptAbilities(root gjson.Result) []Ability {
	var out []Ability
	first(root, "skill.stigma", "skill.skillList", "skillList").ForEach(func(_, v gjson.Result) bool {
		out = append(out, Ability{
			ID:          first(v, "id", "skillId").String(),
			Name:        v.Get("name").String(),
			Level:       firstPositive(v, "level", "skillLevel", "enchantLevel"),
			Category:    v.Get("category").String(),
			Description: first(v, "description", "desc").String(),
		})
		return true
	})
	return out
}

func adaptTitles(root gjson.Result) Titles {
	t := first(root, "title", "titles")
	return Titles{
		OwnedCount: int(t.Get("ownedCount").Int()),
		TotalCount: int(t.Get("totalCount").Int()),
		Bonuses:    readStrings(first(t, "equipTitleStatList", "bonuses"), "desc"),
	}
}

func adaptWings(root gjson.Result) Wings {
	return Wings{Owned: readStrings(first(root, "wing.ownedList", "wings"), "name")}
}
