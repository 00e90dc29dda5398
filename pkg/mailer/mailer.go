// Package mailer sends settlement receipts to the operator inbox.
package mailer

import (
	"fmt"
	"html"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Receipt describes a settled transaction.
type Receipt struct {
	FlowID      string
	Action      string
	Address     string
	Amount      string
	Symbol      string
	TxHash      string
	ExplorerURL string
}

type Sender interface {
	SendReceipt(r Receipt) error
}

type Nop struct{}

func (Nop) SendReceipt(Receipt) error { return nil }

type Mailjet struct {
	client *mailjet.Client
	from   string
	to     string
}

func NewMailjet(apiKey, secretKey, from, to string) *Mailjet {
	return &Mailjet{
		client: mailjet.NewMailjetClient(apiKey, secretKey),
		from:   from,
		to:     to,
	}
}

func (m *Mailjet) SendReceipt(r Receipt) error {
	messages := &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: m.from,
				Name:  "NexusHub",
			},
			To: &mailjet.RecipientsV31{
				{
					Email: m.to,
				},
			},
			Subject:  Subject(r),
			HTMLPart: Body(r),
		},
	}}

	if _, err := m.client.SendMailV31(messages); err != nil {
		return errors.Wrapf(err, "mailjet receipt for %s", r.TxHash)
	}
	logrus.WithFields(logrus.Fields{"flow": r.FlowID, "hash": r.TxHash}).Info("receipt mail sent")
	return nil
}

func Subject(r Receipt) string {
	return fmt.Sprintf("Transaction confirmed: %s", r.Action)
}

func Body(r Receipt) string {
	amount := r.Amount
	if r.Symbol != "" {
		amount += " " + r.Symbol
	}
	return fmt.Sprintf(`<body style="margin:0;padding:0;background:#f6f6f6;">
  <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#f3f2f0;border-radius:28px;">
    <tr>
      <td style="padding:32px;font-family:Arial,sans-serif;color:#111;">
        <h1 style="margin:0 0 12px 0;font-size:28px;">Transaction confirmed</h1>
        <table cellpadding="0" cellspacing="0" border="0" style="width:100%%;margin-bottom:24px;font-size:16px;">
          <tr><td style="color:#555;padding:6px 0;">Action:</td><td style="font-weight:bold;">%s</td></tr>
          <tr><td style="color:#555;padding:6px 0;">Wallet:</td><td style="font-weight:bold;">%s</td></tr>
          <tr><td style="color:#555;padding:6px 0;">Amount:</td><td style="font-weight:bold;">%s</td></tr>
          <tr><td style="color:#555;padding:6px 0;">Transaction:</td><td style="font-weight:bold;">%s</td></tr>
        </table>
        <a href="%s" style="display:inline-block;padding:14px 28px;background:#111;color:#fff;text-decoration:none;border-radius:20px;">View in explorer</a>
      </td>
    </tr>
  </table>
</body>`,
		html.EscapeString(r.Action),
		html.EscapeString(r.Address),
		html.EscapeString(amount),
		html.EscapeString(r.TxHash),
		html.EscapeString(r.ExplorerURL),
	)
}
