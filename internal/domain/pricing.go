package domain

// PricingSnapshot денежный снимок заявки, рассчитанный при создании:
// цена для клиента, предоплата (комиссия платформы), выплата исполнителю
// и ставка комиссии, по которой всё посчитано
//
// Комиссия - наценка сверх цены исполнителя: клиент платит цену исполнителя
// плюс комиссию, комиссия целиком собирается онлайн как предоплата,
// исполнитель получает свою полную цену наличными после выезда
type PricingSnapshot struct {
	PerformerPrice   int64
	CustomerPrice    int64
	PrepaymentAmount int64
	CommissionRate   int
}
