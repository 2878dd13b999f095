package templates

import "embed"

const (
	VerificationSubject = "YemekTaxi - Email Doğrulama Kodu"
	SignupSubject       = "YemekTaxi - Kayıt İşleminiz İncelemeye Alındı"
)

//go:embed *.html
var FS embed.FS

type VerificationData struct {
	VerificationCode string
}

type SignupData struct {
	FirstName string
}
