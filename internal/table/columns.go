package table

import (
	"strconv"

	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/prospect"
)

func predictedColumns(visible bool) []Column {
	out := make([]Column, 0, prospect.Years)
	for year := 1; year <= prospect.Years; year++ {
		f, _ := prospect.PredField(year)
		out = append(out, Column{
			Key: f, Label: "Y" + strconv.Itoa(year), Category: "Projection",
			Visible: visible || year <= 3, Sortable: true, Format: PredictedRank,
		})
	}
	return out
}

// BoardColumns is the draft-board grid.
var BoardColumns = append([]Column{
	{Key: RankColumn, Label: "#", Category: "Ranking", Visible: true, Sortable: true, Format: Rank},
	{Key: prospect.Name, Label: "Prospect", Category: "Bio", Visible: true, Sortable: true, Format: Portrait, Image: assets.Cutout},
	{Key: prospect.Role, Label: "Pos", Category: "Bio", Visible: true, Sortable: true},
	{Key: prospect.PreNBA, Label: "Pre-NBA", Category: "Bio", Visible: true, Sortable: true, Format: Logo, Image: assets.School},
	{Key: prospect.League, Label: "League", Category: "Bio", Visible: false, Sortable: true, Format: Logo, Image: assets.League},
	{Key: prospect.Nationality, Label: "Nat.", Category: "Bio", Visible: false, Sortable: true, Format: Logo, Image: assets.Flag},
	{Key: prospect.Age, Label: "Age", Category: "Measurements", Visible: true, Sortable: true},
	{Key: prospect.Height, Label: "Ht", Category: "Measurements", Visible: true, Sortable: true},
	{Key: prospect.Wingspan, Label: "WS", Category: "Measurements", Visible: false, Sortable: true},
	{Key: prospect.Weight, Label: "Wt", Category: "Measurements", Visible: false, Sortable: true},
	{Key: prospect.Tier, Label: "Tier", Category: "Ranking", Visible: true, Sortable: true, Format: TierBadge},
	{Key: prospect.AvgRank3, Label: "Avg Y1-3", Category: "Ranking", Visible: true, Sortable: true, Format: PredictedRank},
	{Key: prospect.AvgRank5, Label: "Avg Y1-5", Category: "Ranking", Visible: false, Sortable: true, Format: PredictedRank},
}, predictedColumns(false)...)

// HistoryColumns is the yearly draft-history grid.
var HistoryColumns = append([]Column{
	{Key: prospect.ActualPick, Label: "Pick", Category: "Draft", Visible: true, Sortable: true, Format: Pick},
	{Key: prospect.DraftYear, Label: "Year", Category: "Draft", Visible: true, Sortable: true},
	{Key: prospect.NBATeam, Label: "Team", Category: "Draft", Visible: true, Sortable: true, Format: Logo, Image: assets.NBA},
	{Key: prospect.Name, Label: "Prospect", Category: "Bio", Visible: true, Sortable: true, Format: Portrait, Image: assets.Cutout},
	{Key: prospect.Role, Label: "Pos", Category: "Bio", Visible: true, Sortable: true},
	{Key: prospect.PreNBA, Label: "Pre-NBA", Category: "Bio", Visible: true, Sortable: true, Format: Logo, Image: assets.School},
	{Key: prospect.Age, Label: "Age", Category: "Measurements", Visible: false, Sortable: true},
	{Key: prospect.Height, Label: "Ht", Category: "Measurements", Visible: false, Sortable: true},
	{Key: prospect.AvgRank3, Label: "Avg Y1-3", Category: "Ranking", Visible: true, Sortable: true, Format: PredictedRank},
	{Key: prospect.AvgRank5, Label: "Avg Y1-5", Category: "Ranking", Visible: true, Sortable: true, Format: PredictedRank},
}, predictedColumns(true)...)

// ConsensusColumns is the consensus-board grid.
var ConsensusColumns = []Column{
	{Key: prospect.ConsensusRank, Label: "Rank", Category: "Consensus", Visible: true, Sortable: true},
	{Key: prospect.Name, Label: "Prospect", Category: "Bio", Visible: true, Sortable: true, Format: Portrait, Image: assets.Cutout},
	{Key: prospect.Role, Label: "Pos", Category: "Bio", Visible: true, Sortable: true},
	{Key: prospect.PreNBA, Label: "Pre-NBA", Category: "Bio", Visible: true, Sortable: true, Format: Logo, Image: assets.School},
	{Key: prospect.Tier, Label: "Tier", Category: "Consensus", Visible: true, Sortable: true, Format: TierBadge},
	{Key: prospect.Boards, Label: "Boards", Category: "Consensus", Visible: false, Sortable: true},
	{Key: prospect.Top3Pct, Label: "Top 3", Category: "Odds", Visible: true, Sortable: true, Format: Percent},
	{Key: prospect.Top5Pct, Label: "Top 5", Category: "Odds", Visible: true, Sortable: true, Format: Percent},
	{Key: prospect.LotteryPct, Label: "Lottery", Category: "Odds", Visible: true, Sortable: true, Format: Percent},
	{Key: prospect.FirstRoundPct, Label: "1st Rd", Category: "Odds", Visible: true, Sortable: true, Format: Percent},
}
