package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

type CommissionEmailData struct {
	Name    string
	Role    string
	Amount  string
	Percent string
	SaleID  string
}
