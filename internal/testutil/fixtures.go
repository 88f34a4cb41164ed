package testutil

// default.yaml の値
const (
	// バリエーション 10/11/12 (300/420/540)
	MargheritaID         int64 = 5
	MargheritaSmallID    int64 = 10
	MargheritaMediumID   int64 = 11
	MargheritaSmallPrice int64 = 300

	// 別商品のバリエーション
	PepperoniID      int64 = 1
	PepperoniSmallID int64 = 1

	// バリエーション無し
	CheeseID    int64 = 2
	CheesePrice int64 = 250

	MozzarellaID    int64 = 9
	MozzarellaPrice int64 = 50
	JalapenoID      int64 = 2

	DeliveryPrice int64 = 50

	UnknownID int64 = 9999
)
