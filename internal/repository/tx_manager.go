package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Carts() CartRepository
	CartItems() CartItemRepository
	CartItemIngredients() CartItemIngredientRepository
	Products() ProductRepository
	Variants() VariantRepository
	Ingredients() IngredientRepository
	PromoCodes() PromoCodeRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全体をロールバックする。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
