package molecule

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/chem"
)

// attrTarget selects which integer field a digit inside a bracket atom
// modifies.
type attrTarget uint8

const (
	attrNone attrTarget = iota
	attrIsotope
	attrHCount
	attrCharge
)

// ringOpening records the first occurrence of a ring-closure digit: the atom
// it was seen on and the bond type that was pending at that point.
type ringOpening struct {
	atom int
	bond chem.BondType
}

// parser is the single-pass SMILES state machine.  It walks the input byte
// by byte, growing the molecule's atom and bond lists as it goes; branches
// are tracked with rootStack, ring closures with openRings, and bracket
// atoms with the attr* fields.
type parser struct {
	src string
	pos int
	mol *Molecule

	rootStack  []int
	parenDepth int
	pending    chem.BondType
	openRings  map[int]ringOpening

	// Bracket-atom state, valid while inBracket.
	inBracket  bool
	attr       attrTarget
	elementStr string
	isotope    int
	atCount    int
	sawH       bool
	hCount     int
	hDigits    bool
	chargeSign int
	chargeRuns int
	chargeMag  int
	chargeDigits bool
}

// Parse translates a SMILES string into a raw molecule: atoms and bonds are
// populated, delocalized flags set from lowercase symbols, and explicit
// hydrogen counts recorded, but no perception has run.  The empty string
// parses to an empty molecule.
//
// Multi-fragment inputs (the `.` separator) are rejected.
func Parse(s string) (*Molecule, error) {
	p := &parser{
		src:       s,
		mol:       New(),
		pending:   chem.BondDefault,
		openRings: make(map[int]ringOpening),
	}
	for p.pos = 0; p.pos < len(s); p.pos++ {
		c := s[p.pos]
		var err error
		if p.inBracket {
			err = p.consumeBracket(c)
		} else {
			err = p.consumeOuter(c)
		}
		if err != nil {
			return nil, err
		}
	}
	if p.inBracket {
		return nil, p.errAt(errors.ErrCodeSMILESUnclosedBracket, "input ended inside a bracket atom")
	}
	if len(p.openRings) > 0 {
		return nil, p.errAt(errors.ErrCodeSMILESUnclosedRing,
			fmt.Sprintf("%d ring label(s) never closed", len(p.openRings)))
	}
	if p.parenDepth > 0 {
		return nil, p.errAt(errors.ErrCodeSMILESMismatchedParen, "unclosed branch parenthesis")
	}
	return p.mol, nil
}

// errAt builds a parse error annotated with the offending position and the
// surrounding input substring.
func (p *parser) errAt(code errors.ErrorCode, msg string) *errors.AppError {
	lo := p.pos - 8
	if lo < 0 {
		lo = 0
	}
	hi := p.pos + 8
	if hi > len(p.src) {
		hi = len(p.src)
	}
	return errors.New(code, msg).
		WithDetail(fmt.Sprintf("position %d near %q", p.pos, p.src[lo:hi]))
}

// appendAtom adds a new atom, emits the bond to the current branch root, and
// makes the new atom the branch root.
func (p *parser) appendAtom(a Atom) error {
	idx := p.mol.AddAtom(a)
	if n := len(p.rootStack); n > 0 {
		root := p.rootStack[n-1]
		p.rootStack = p.rootStack[:n-1]
		if err := p.mol.AddBond(root, idx, p.pending); err != nil {
			return err
		}
	}
	p.rootStack = append(p.rootStack, idx)
	p.pending = chem.BondDefault
	return nil
}

// closeOrOpenRing handles a ring-closure label: the first occurrence records
// a promise, the second fulfils it with a bond.
func (p *parser) closeOrOpenRing(label int) error {
	if len(p.rootStack) == 0 {
		return p.errAt(errors.ErrCodeSMILESInvalidChar, "ring label before any atom")
	}
	top := p.rootStack[len(p.rootStack)-1]
	if open, ok := p.openRings[label]; ok {
		bt := open.bond
		if bt == chem.BondDefault {
			bt = p.pending
		}
		if err := p.mol.AddBond(open.atom, top, bt); err != nil {
			return err
		}
		delete(p.openRings, label)
	} else {
		p.openRings[label] = ringOpening{atom: top, bond: p.pending}
	}
	p.pending = chem.BondDefault
	return nil
}

// consumeOuter handles one character outside bracket mode.
func (p *parser) consumeOuter(c byte) error {
	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		e, _ := chem.FromSymbol(string(c))
		return p.appendAtom(Atom{Element: e})
	case 'b', 'c', 'n', 'o', 'p', 's':
		e, _, _ := chem.FromSMILESSymbol(string(c))
		return p.appendAtom(Atom{Element: e, Delocalized: true})
	case '*':
		return p.appendAtom(Atom{Element: chem.Wildcard})
	case 'l':
		// Second character of "Cl": upgrade the atom just appended.
		if p.pos > 0 && p.src[p.pos-1] == 'C' && len(p.mol.atoms) > 0 {
			p.mol.atoms[len(p.mol.atoms)-1].Element = chem.Cl
			return nil
		}
		return p.errAt(errors.ErrCodeSMILESInvalidChar, "'l' not preceded by 'C'")
	case 'r':
		// Second character of "Br".
		if p.pos > 0 && p.src[p.pos-1] == 'B' && len(p.mol.atoms) > 0 {
			p.mol.atoms[len(p.mol.atoms)-1].Element = chem.Br
			return nil
		}
		return p.errAt(errors.ErrCodeSMILESInvalidChar, "'r' not preceded by 'B'")
	case '[':
		if err := p.appendAtom(Atom{Element: chem.Wildcard}); err != nil {
			return err
		}
		p.inBracket = true
		p.attr = attrIsotope
		p.elementStr = ""
		p.isotope = 0
		p.atCount = 0
		p.sawH = false
		p.hCount = 0
		p.hDigits = false
		p.chargeSign = 0
		p.chargeRuns = 0
		p.chargeMag = 0
		p.chargeDigits = false
		return nil
	case '(':
		if len(p.rootStack) == 0 {
			return p.errAt(errors.ErrCodeSMILESMismatchedParen, "branch opened before any atom")
		}
		p.rootStack = append(p.rootStack, p.rootStack[len(p.rootStack)-1])
		p.parenDepth++
		return nil
	case ')':
		if p.parenDepth == 0 || len(p.rootStack) == 0 {
			return p.errAt(errors.ErrCodeSMILESMismatchedParen, "branch closed without opening")
		}
		p.rootStack = p.rootStack[:len(p.rootStack)-1]
		p.parenDepth--
		return nil
	case '-', '=', '#', '$', ':', '/', '\\':
		bt, _ := chem.BondTypeFromChar(c)
		p.pending = bt
		return nil
	case '%':
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errAt(errors.ErrCodeSMILESInvalidChar, "'%' not followed by two digits")
		}
		label := int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 2
		return p.closeOrOpenRing(label)
	case '.':
		return p.errAt(errors.ErrCodeSMILESDotSeparator, "fragment separator rejected")
	default:
		if isDigit(c) {
			return p.closeOrOpenRing(int(c - '0'))
		}
		return p.errAt(errors.ErrCodeSMILESInvalidChar, fmt.Sprintf("unexpected character %q", c))
	}
}

// consumeBracket handles one character inside a bracket atom.
func (p *parser) consumeBracket(c byte) error {
	switch {
	case isDigit(c):
		d := int(c - '0')
		switch p.attr {
		case attrIsotope:
			p.isotope = p.isotope*10 + d
		case attrHCount:
			if !p.hDigits {
				p.hCount = d
				p.hDigits = true
			} else {
				p.hCount = p.hCount*10 + d
			}
		case attrCharge:
			if !p.chargeDigits {
				p.chargeMag = d
				p.chargeDigits = true
			} else {
				p.chargeMag = p.chargeMag*10 + d
			}
		default:
			return p.errAt(errors.ErrCodeSMILESInvalidChar, "digit with no attribute target")
		}
		return nil

	case c == '*':
		if p.elementStr != "" {
			return p.errAt(errors.ErrCodeSMILESInvalidElement, "misplaced wildcard")
		}
		p.elementStr = "*"
		p.attr = attrNone
		return nil

	case c == '@':
		p.atCount++
		if p.atCount > 2 {
			return p.errAt(errors.ErrCodeSMILESChirality, "more than two '@' markers")
		}
		return nil

	case c == 'H' && p.elementStr != "":
		p.sawH = true
		p.hCount = 1
		p.hDigits = false
		p.attr = attrHCount
		return nil

	case c == '+' || c == '-':
		sign := 1
		if c == '-' {
			sign = -1
		}
		if p.chargeSign == 0 {
			p.chargeSign = sign
			p.chargeRuns = 1
		} else if p.chargeSign == sign {
			p.chargeRuns++
		} else {
			return p.errAt(errors.ErrCodeSMILESInvalidChar, "mixed charge signs")
		}
		p.attr = attrCharge
		return nil

	case isAlpha(c):
		if p.elementStr != "" {
			// Trailing junk letters make the element symbol unresolvable;
			// report them as an element error at once.
			return p.errAt(errors.ErrCodeSMILESInvalidElement,
				fmt.Sprintf("unexpected letter %q after element %q", c, p.elementStr))
		}
		p.elementStr = string(c)
		// Two-character symbols (Cl, Br, Na, Se, ...) need one lowercase
		// lookahead; only an uppercase first letter can start one.
		if isUpper(c) && p.pos+1 < len(p.src) && isLower(p.src[p.pos+1]) {
			two := p.elementStr + string(p.src[p.pos+1])
			if _, ok := chem.FromSymbol(two); ok {
				p.elementStr = two
				p.pos++
			}
		}
		p.attr = attrNone
		return nil

	case c == ']':
		return p.finishBracket()

	default:
		return p.errAt(errors.ErrCodeSMILESInvalidChar,
			fmt.Sprintf("unexpected character %q in bracket atom", c))
	}
}

// finishBracket resolves the accumulated bracket state onto the atom pushed
// at '[' and returns to outer mode.
func (p *parser) finishBracket() error {
	a := &p.mol.atoms[len(p.mol.atoms)-1]

	if p.elementStr == "" {
		return p.errAt(errors.ErrCodeSMILESInvalidElement, "empty bracket atom")
	}
	if p.elementStr == "*" {
		a.Element = chem.Wildcard
	} else {
		e, deloc, ok := chem.FromSMILESSymbol(p.elementStr)
		if !ok {
			return p.errAt(errors.ErrCodeSMILESInvalidElement,
				fmt.Sprintf("unknown element %q", p.elementStr))
		}
		a.Element = e
		a.Delocalized = deloc
	}

	a.Isotope = p.isotope

	if p.sawH {
		h := p.hCount
		a.ImplicitH = &h
	}

	charge := 0
	if p.chargeSign != 0 {
		if p.chargeDigits {
			charge = p.chargeSign * p.chargeMag
		} else {
			charge = p.chargeSign * p.chargeRuns
		}
	}
	if charge < -8 || charge > 8 {
		return p.errAt(errors.ErrCodeSMILESChargeRange,
			fmt.Sprintf("charge %+d out of range", charge))
	}
	a.Charge = charge

	switch p.atCount {
	case 1:
		a.Chirality = chem.ChiralityCounterClockwise
	case 2:
		a.Chirality = chem.ChiralityClockwise
	}

	p.inBracket = false
	p.attr = attrNone
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return isUpper(c) || isLower(c) }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
