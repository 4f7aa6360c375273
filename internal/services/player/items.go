package player

import (
	"context"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"go.uber.org/zap"
)

// GiveItemInput names a catalog item and the level to create it at
type GiveItemInput struct {
	PlayerID int64
	Key      string
	Level    int
}

// ReinforceOutput reports one reinforcement attempt
type ReinforceOutput struct {
	Player  *character.Player
	Item    *equipment.Item
	Outcome equipment.Outcome

	// Refund is the soul shards returned when the item was destroyed
	Refund int
}

// TransferInput moves ItemID from one player to another
type TransferInput struct {
	FromID int64
	ToID   int64
	ItemID string
}

// TransferOutput holds both players after a transfer
type TransferOutput struct {
	From *character.Player
	To   *character.Player
	Item *equipment.Item
}

// OpenChestInput identifies the player and the level of the guild they opened it in
type OpenChestInput struct {
	PlayerID   int64
	GuildLevel int
}

// OpenChestOutput holds the reward: either a soul shard or an item
type OpenChestOutput struct {
	Player    *character.Player
	SoulShard bool
	Item      *equipment.Item
}

func (s *service) Equip(ctx context.Context, input *ItemInput) (*character.Player, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		return p.Equip(input.ItemID)
	})
}

func (s *service) Unequip(ctx context.Context, input *ItemInput) (*character.Player, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		return p.Unequip(input.ItemID)
	})
}

func (s *service) DropItem(ctx context.Context, input *ItemInput) (*character.Player, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		_, err := p.RemoveItem(input.ItemID)
		return err
	})
}

// GiveItem looks the key up among regular items first, then legendary ones
func (s *service) GiveItem(ctx context.Context, input *GiveItemInput) (*ItemOutput, error) {
	if input == nil || input.Key == "" {
		return nil, dnderr.InvalidArgument("item key is required")
	}

	tmpl, err := s.catalog.Item(input.Key)
	if dnderr.IsNotFound(err) {
		tmpl, err = s.catalog.Legendary(input.Key)
	}
	if err != nil {
		return nil, err
	}

	out := &ItemOutput{}
	out.Player, err = s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		item := equipment.NewItem(s.uuid.New(), tmpl, max(input.Level, 1))
		if err := p.AddItem(item); err != nil {
			return err
		}
		out.Item = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Reinforce(ctx context.Context, input *ItemInput) (*ReinforceOutput, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	out := &ReinforceOutput{}
	p, err := s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		item, err := p.Item(input.ItemID)
		if err != nil {
			return err
		}
		if item.Reinforced >= s.rules.MaxReinforcement {
			return dnderr.FailedPreconditionf("%s is already at the reinforcement cap +%d", item.Name, s.rules.MaxReinforcement).
				WithMeta("item_id", item.ID)
		}
		if p.SoulShard <= 0 {
			return dnderr.FailedPrecondition("reinforcing needs a soul shard").
				WithMeta("player_id", p.ID)
		}

		p.SoulShard--
		out.Outcome = item.Reinforce(s.roller)
		out.Item = item

		if out.Outcome == equipment.OutcomeDestroyed {
			out.Refund = item.DestroyRefund()
			p.DestroyItem(item.ID)
			p.SoulShard += out.Refund
			s.logger.Info("item destroyed by reinforcement",
				zap.Int64("player_id", p.ID),
				zap.String("item_id", item.ID),
				zap.String("item", item.Name),
				zap.Int("level", item.Reinforced),
				zap.Int("refund", out.Refund))
			return nil
		}
		if _, equipped := p.EquippedIn(item.ID); equipped {
			p.ReloadEquipment()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Player = p
	return out, nil
}

// Transfer locks both players in ID order so two opposite transfers cannot deadlock
func (s *service) Transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	if input == nil || input.FromID == 0 || input.ToID == 0 || input.ItemID == "" {
		return nil, dnderr.InvalidArgument("sender, receiver and item are required")
	}
	if input.FromID == input.ToID {
		return nil, dnderr.InvalidArgument("cannot transfer an item to yourself")
	}

	first, second := input.FromID, input.ToID
	if second < first {
		first, second = second, first
	}
	for _, id := range []int64{first, second} {
		token, err := s.lock(ctx, id)
		if err != nil {
			return nil, err
		}
		defer s.unlock(ctx, token)
	}

	from, err := s.load(ctx, input.FromID)
	if err != nil {
		return nil, err
	}
	to, err := s.load(ctx, input.ToID)
	if err != nil {
		return nil, err
	}

	item, err := from.Item(input.ItemID)
	if err != nil {
		return nil, err
	}
	switch {
	case from.Level < s.rules.TransferMinLevel || to.Level < s.rules.TransferMinLevel:
		return nil, dnderr.FailedPreconditionf("both players must be level %d to trade", s.rules.TransferMinLevel)
	case item.Legendary():
		return nil, dnderr.FailedPreconditionf("%s belongs to a legendary set and cannot be traded", item.Name).
			WithMeta("item_id", item.ID)
	case to.InventoryFull():
		return nil, dnderr.FailedPreconditionf("receiver's inventory is full (%d/%d)", len(to.Inventory), to.InventorySize).
			WithMeta("player_id", to.ID)
	}
	if _, equipped := from.EquippedIn(item.ID); equipped {
		return nil, dnderr.FailedPreconditionf("%s is equipped", item.Name).
			WithMeta("item_id", item.ID)
	}

	if _, err := from.RemoveItem(item.ID); err != nil {
		return nil, err
	}
	if err := to.AddItem(item); err != nil {
		return nil, err
	}

	// Receiver first: a failed sender write leaves a duplicate to clean up, never a lost item
	if err := s.repository.Put(ctx, to); err != nil {
		return nil, dnderr.Wrapf(err, "failed to save transfer to player %d", to.ID)
	}
	if err := s.repository.Put(ctx, from); err != nil {
		return nil, dnderr.Wrapf(err, "failed to save transfer from player %d", from.ID).
			WithMeta("item_id", item.ID)
	}

	return &TransferOutput{From: from, To: to, Item: item}, nil
}

func (s *service) OpenChest(ctx context.Context, input *OpenChestInput) (*OpenChestOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	out := &OpenChestOutput{}
	p, err := s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		switch {
		case p.Level < s.rules.ChestMinLevel:
			return dnderr.FailedPreconditionf("chests unlock at level %d", s.rules.ChestMinLevel)
		case p.Chest < s.rules.ChestCost:
			return dnderr.FailedPreconditionf("opening a chest needs %d chest tokens, you have %d", s.rules.ChestCost, p.Chest)
		case p.InventoryFull():
			return dnderr.FailedPreconditionf("inventory is full (%d/%d)", len(p.Inventory), p.InventorySize)
		}

		p.Chest -= s.rules.ChestCost
		if dice.Chance(s.roller, s.rules.ChestShardChance) {
			p.SoulShard++
			out.SoulShard = true
			return nil
		}

		level := min(p.Level, max(input.GuildLevel, 1)*10)
		item := equipment.NewItem(s.uuid.New(), s.catalog.RandomItem(s.roller), level)
		out.Item = item
		return p.AddItem(item)
	})
	if err != nil {
		return nil, err
	}
	out.Player = p
	return out, nil
}

// SoulforgeOffer shuffles the legendary list with a seed that changes daily
// and picks the entry for the current hour
func (s *service) SoulforgeOffer(at time.Time) (*equipment.Template, error) {
	keys := append([]string{}, s.catalog.LegendaryKeys()...)
	if len(keys) == 0 {
		return nil, dnderr.NotFoundf("the soulforge has nothing to offer")
	}

	seeded := dice.NewSeededRoller(int64(at.Month())*100 + int64(at.Day()))
	dice.Shuffle(seeded, len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	return s.catalog.Legendary(keys[at.Hour()%len(keys)])
}

func (s *service) Soulforge(ctx context.Context, input *PlayerInput) (*ItemOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	tmpl, err := s.SoulforgeOffer(s.now())
	if err != nil {
		return nil, err
	}

	out := &ItemOutput{}
	out.Player, err = s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		switch {
		case p.SoulShard < s.rules.SoulforgeCost:
			return dnderr.FailedPreconditionf("the soulforge needs %d soul shards, you have %d", s.rules.SoulforgeCost, p.SoulShard)
		case p.InventoryFull():
			return dnderr.FailedPreconditionf("inventory is full (%d/%d)", len(p.Inventory), p.InventorySize)
		}

		item := equipment.NewItem(s.uuid.New(), tmpl, tmpl.Level)
		if err := p.AddItem(item); err != nil {
			return err
		}
		p.SoulShard -= s.rules.SoulforgeCost
		out.Item = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validateItemInput(input *ItemInput) error {
	if input == nil {
		return dnderr.InvalidArgument("input is required")
	}
	if input.ItemID == "" {
		return dnderr.InvalidArgument("item ID is required")
	}
	return nil
}
