// Package ofx reads OFX/QFX statements into statement lines for resolution.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/spice-merchant/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser reads OFX/QFX files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes formatting issues common in bank exports.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its statement lines.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.StatementLine, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var lines []model.StatementLine
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			lines = append(lines, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			lines = append(lines, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.InfoContext(ctx, "Parsed OFX file",
		"total_lines", len(lines),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return lines, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []model.StatementLine {
	if list == nil {
		return nil
	}

	lines := make([]model.StatementLine, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		line := p.convertTransaction(tx, accountID)
		if line.Descriptor == "" {
			slog.Warn("Skipping OFX transaction without description", "fitid", line.ID)
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// convertTransaction converts an OFX transaction to a statement line.
// Amounts keep their OFX sign: debits are negative.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, accountID string) model.StatementLine {
	amount, _ := tx.TrnAmt.Float64()

	line := model.StatementLine{
		ID:         string(tx.FiTID),
		Date:       tx.DtPosted.Time,
		Descriptor: descriptorOf(tx),
		Amount:     amount,
		AccountID:  accountID,
		Type:       tx.TrnType.String(),
	}
	line.Hash = line.GenerateHash()
	return line
}

// descriptorOf assembles the raw descriptor from NAME, PAYEE and MEMO.
// Many Brazilian banks truncate NAME and carry the rest of the text in MEMO,
// so MEMO is appended unless it repeats NAME.
func descriptorOf(tx ofxgo.Transaction) string {
	name := strings.TrimSpace(string(tx.Name))
	if name == "" && tx.Payee != nil {
		name = strings.TrimSpace(string(tx.Payee.Name))
	}
	memo := strings.TrimSpace(string(tx.Memo))

	switch {
	case name == "":
		return memo
	case memo == "" || strings.Contains(strings.ToUpper(name), strings.ToUpper(memo)):
		return name
	case strings.HasPrefix(strings.ToUpper(memo), strings.ToUpper(name)):
		return memo
	default:
		return name + " " + memo
	}
}

// Accounts returns the sorted unique account IDs in the OFX file.
func (p *Parser) Accounts(reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	slices.Sort(accounts)
	return accounts, nil
}

// Descriptors returns the descriptor of every line, in order.
func Descriptors(lines []model.StatementLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Descriptor
	}
	return out
}
