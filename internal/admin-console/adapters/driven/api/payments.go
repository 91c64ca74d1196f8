package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
)

const maxQRBytes = 1 << 20

type PaymentsGateway struct {
	client *apiclient.Client
}

var _ ports.IPaymentsGateway = (*PaymentsGateway)(nil)

func NewPaymentsGateway(client *apiclient.Client) *PaymentsGateway {
	return &PaymentsGateway{client: client}
}

func (g *PaymentsGateway) ListPayments(ctx context.Context, query url.Values) (dto.Page[model.InvoicePayment], error) {
	return list[model.InvoicePayment](ctx, g.client, pathPayments, query)
}

func (g *PaymentsGateway) GetPayment(ctx context.Context, id int64) (model.InvoicePayment, error) {
	var p model.InvoicePayment
	err := g.client.GetJSON(ctx, item(pathPayments, id), nil, &p)
	return p, err
}

func (g *PaymentsGateway) Summary(ctx context.Context, query url.Values) (model.PaymentSummary, error) {
	var s model.PaymentSummary
	err := g.client.GetJSON(ctx, pathPaymentsSummary, query, &s)
	return s, err
}

func (g *PaymentsGateway) MarkPaid(ctx context.Context, id int64, req dto.MarkPaidRequest) error {
	return g.client.PostJSON(ctx, action(pathPayments, id, "mark-paid"), req, nil)
}

func (g *PaymentsGateway) ExportCSV(ctx context.Context, query url.Values) (io.ReadCloser, error) {
	body, _, err := g.client.Stream(ctx, pathPaymentsCSV, query)
	return body, err
}

// ReceiptQR downloads the receipt QR image. Anything that is not an image is
// treated as a failure.
func (g *PaymentsGateway) ReceiptQR(ctx context.Context, id int64) ([]byte, string, error) {
	body, contentType, err := g.client.Stream(ctx, action(pathPayments, id, "receipt-qr"), nil)
	if err != nil {
		return nil, "", err
	}
	defer body.Close()

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, "", fmt.Errorf("receipt qr: unexpected content type %q", contentType)
	}
	data, err := io.ReadAll(io.LimitReader(body, maxQRBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read receipt qr: %w", err)
	}
	return data, mediaType, nil
}

func (g *PaymentsGateway) ReceiptQRURL(id int64) string {
	return g.client.URL(action(pathPayments, id, "receipt-qr"), nil)
}
