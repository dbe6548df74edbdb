package nowpayments

type Config struct {
	BaseURL        string `envconfig:"BASE_URL" default:"https://api.nowpayments.io/v1"`
	APIKey         string `envconfig:"API_KEY"`
	IPNSecret      string `envconfig:"IPN_SECRET"`
	IPNCallbackURL string `envconfig:"IPN_CALLBACK_URL"` // https://host/ipn/nowpayments
	TimeoutSeconds int    `envconfig:"TIMEOUT" default:"30"`
	// валюты, доступные покупателю, через запятую
	Currencies []string `envconfig:"CURRENCIES" default:"sol,btc,eth,usdttrc20,ltc"`
}
