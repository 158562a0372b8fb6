package mahjong

// fu counts minipoints for one reading of the hand.
func (c *yakuContext) fu() int {
	switch c.shape.form {
	case formChiitoi:
		return 25
	case formKokushi:
		return 30
	}
	pinfu := c.isPinfu()
	if pinfu {
		if c.win.Tsumo {
			return 20
		}
		return 30
	}

	fu := 20
	if c.menzen && !c.win.Tsumo {
		fu += 10
	}
	if c.win.Tsumo {
		fu += 2
	}
	for i, g := range c.shape.groups {
		switch g.kind {
		case groupSet:
			f := 2
			if g.tile.IsYaochu() {
				f *= 2
			}
			if c.concealedSet(i) {
				f *= 2
			}
			if g.quad {
				f *= 4
			}
			fu += f
		case groupPair:
			if g.tile.IsDragon() {
				fu += 2
			}
			if g.tile == c.seat {
				fu += 2
			}
			if g.tile == c.round {
				fu += 2
			}
		case groupRun, groupSingle:
		}
	}
	switch c.at.wait {
	case waitKanchan, waitPenchan, waitTanki:
		fu += 2
	case waitRyanmen, waitShanpon:
	}
	fu = roundUp(fu, 10)
	if fu == 20 && !c.menzen {
		fu = 30
	}
	return fu
}

// basePoints applies the limit hands; payments are multiples of it.
func basePoints(han, fu, yakuman int) int {
	switch {
	case yakuman > 0:
		return 8000 * yakuman
	case han >= 13:
		return 8000
	case han >= 11:
		return 6000
	case han >= 8:
		return 4000
	case han >= 6:
		return 3000
	case han >= 5:
		return 2000
	}
	base := fu * (1 << (2 + han))
	if base > 2000 {
		base = 2000
	}
	return base
}

func roundUp(x, unit int) int {
	return (x + unit - 1) / unit * unit
}

// ronPoints is what the discarder pays, honba excluded.
func ronPoints(base int, dealer bool) int {
	if dealer {
		return roundUp(6*base, 100)
	}
	return roundUp(4*base, 100)
}

// tsumoPoints is what each payer owes a tsumo winner, honba excluded.
func tsumoPoints(base int, winnerDealer, payerDealer bool) int {
	if winnerDealer || payerDealer {
		return roundUp(2*base, 100)
	}
	return roundUp(base, 100)
}
