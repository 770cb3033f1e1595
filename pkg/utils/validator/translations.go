package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

func (v *Validator) registerCustomTranslations() {
	if enTrans := v.GetTranslator(LangEN); enTrans != nil {
		v.registerTranslations(enTrans, map[string]string{
			TagDBName:       "{0} must be a valid database name (1-63 characters, none of /\\. \"$*<>:|?)",
			TagCollName:     "{0} must be a valid collection name (no '$', not starting with 'system.')",
			TagNoWhitespace: "{0} must not contain whitespace characters",
		})
	}

	if zhTrans := v.GetTranslator(LangZH); zhTrans != nil {
		v.registerTranslations(zhTrans, map[string]string{
			TagDBName:       "{0}必须是有效的数据库名称",
			TagCollName:     "{0}必须是有效的集合名称",
			TagNoWhitespace: "{0}不能包含空白字符",
		})
	}
}

func (v *Validator) registerTranslations(trans ut.Translator, translations map[string]string) {
	for tag, message := range translations {
		registerTranslation(v.validate, trans, tag, message)
	}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, message string) {
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}
