package paystream

// Service accessors group operations by resource. Each service embeds
// *Client, so every operation runs through the same transport and
// credential.

type ChargesService struct{ *Client }

type CustomersService struct{ *Client }

type PlansService struct{ *Client }

type InvoicesService struct{ *Client }

type InvoiceItemsService struct{ *Client }

type TokensService struct{ *Client }

type CouponsService struct{ *Client }

type AccountService struct{ *Client }

type BalanceService struct{ *Client }

type EventsService struct{ *Client }

func (c *Client) Charges() ChargesService {
	return ChargesService{c}
}

func (c *Client) Customers() CustomersService {
	return CustomersService{c}
}

func (c *Client) Plans() PlansService {
	return PlansService{c}
}

func (c *Client) Invoices() InvoicesService {
	return InvoicesService{c}
}

func (c *Client) InvoiceItems() InvoiceItemsService {
	return InvoiceItemsService{c}
}

func (c *Client) Tokens() TokensService {
	return TokensService{c}
}

func (c *Client) Coupons() CouponsService {
	return CouponsService{c}
}

func (c *Client) Account() AccountService {
	return AccountService{c}
}

func (c *Client) Balance() BalanceService {
	return BalanceService{c}
}

func (c *Client) Events() EventsService {
	return EventsService{c}
}
