package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"foodcart/internal/domain/model"
	"foodcart/internal/domain/pricing"
	"foodcart/internal/platform/logger"
	repo "foodcart/internal/repository"
)

// usecaseがValidatorInterfaceに依存する約束
// 形の検証だけ。存在チェックはusecase側でDBを見る。
type CartValidator interface {
	ValidateUserID(userID int64) error
	ValidateAddItem(in AddItemInput) error
	ValidateLineRef(ref LineRef) error
	ValidateSetVariant(in SetVariantInput) error
	ValidateIngredient(in IngredientInput) error
}

// 明細の指定方法。VariantIDがあれば (cart, variant) の行、
// 無ければ productID に属する最初の行。
type LineRef struct {
	ProductID int64
	VariantID int64
}

type IngredientQty struct {
	ID       int64
	Quantity int64
}

type AddItemInput struct {
	ProductID   int64
	VariantID   int64
	Quantity    int64
	Ingredients []IngredientQty
}

type SetVariantInput struct {
	ProductID int64
	// 付け替え元（0なら ProductID で探す）
	CurrentVariantID int64
	VariantID        int64
}

// Quantity の意味は操作ごと（attach: 加算量, set: 絶対値）
type IngredientInput struct {
	Ref          LineRef
	IngredientID int64
	Quantity     int64
}

type IngredientResult struct {
	Cart CartView `json:"cart"`
	// 削除された場合は nil
	Attachment *model.CartItemIngredient `json:"cartItemIngredient,omitempty"`
}

type SummaryOutput struct {
	Subtotal      int64  `json:"subtotal"`
	DeliveryPrice int64  `json:"deliveryPrice"`
	PromoCode     string `json:"promoCode,omitempty"`
	Discount      int64  `json:"discount"`
	FreeShipping  bool   `json:"freeShipping"`
	FinalPrice    int64  `json:"finalPrice"`
}

type CartUsecase struct {
	tx            repo.TransactionManager
	validator     CartValidator
	promo         *PromoUsecase
	notifier      CartNotifier
	log           *logger.Logger
	deliveryPrice int64
	newToken      func() string
}

// DI
func NewCartUsecase(
	tx repo.TransactionManager,
	validator CartValidator,
	promo *PromoUsecase,
	notifier CartNotifier,
	log *logger.Logger,
	deliveryPrice int64,
) *CartUsecase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CartUsecase{
		tx:            tx,
		validator:     validator,
		promo:         promo,
		notifier:      notifier,
		log:           log,
		deliveryPrice: deliveryPrice,
		newToken:      uuid.NewString,
	}
}

// GetCart はカートを返す（無くても作らない）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartView, error) {
	if err := u.validator.ValidateUserID(userID); err != nil {
		return CartView{}, invalidInput(err.Error())
	}

	var view CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			view = emptyCartView(userID, u.deliveryPrice)
			return nil
		}
		if err != nil {
			return dbError(err)
		}
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError(err)
		}
		view, err = buildCartView(cart, items, u.deliveryPrice)
		if err != nil {
			return pricingError(err)
		}
		return nil
	})
	if err != nil {
		return CartView{}, u.fail("getCart", userID, err)
	}
	return view, nil
}

// AddItem は商品を追加（同じバリエーションは数量加算）。
// トッピングも同じTxで付けるので、どれか1つでも失敗すれば何も残らない。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddItemInput) (CartView, error) {
	if err := u.validator.ValidateUserID(userID); err != nil {
		return CartView{}, invalidInput(err.Error())
	}
	if err := u.validator.ValidateAddItem(in); err != nil {
		return CartView{}, invalidInput(err.Error())
	}

	return u.mutate(ctx, "add", userID, true, func(r repo.TxRepos, cart model.Cart) error {
		v, err := u.resolveVariant(ctx, r, in.ProductID, in.VariantID)
		if err != nil {
			return err
		}
		item, err := u.upsertItem(ctx, r, cart.ID, v.ID, in.Quantity)
		if err != nil {
			return err
		}
		for _, ing := range in.Ingredients {
			qty := ing.Quantity
			if qty == 0 {
				qty = 1
			}
			if _, err := u.attach(ctx, r, item.ID, ing.ID, qty); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *CartUsecase) Increase(ctx context.Context, userID int64, ref LineRef) (CartView, error) {
	if err := u.validateRef(userID, ref); err != nil {
		return CartView{}, err
	}

	return u.mutate(ctx, "increase", userID, false, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.resolveItem(ctx, r, cart.ID, ref)
		if err != nil {
			return err
		}
		if err := r.CartItems().AddQuantity(ctx, item.ID, 1); err != nil {
			return dbError(err)
		}
		return nil
	})
}

// Decrease は1減らす。1個の状態なら明細ごと（トッピングも）削除。
func (u *CartUsecase) Decrease(ctx context.Context, userID int64, ref LineRef) (CartView, error) {
	if err := u.validateRef(userID, ref); err != nil {
		return CartView{}, err
	}

	return u.mutate(ctx, "decrease", userID, false, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.resolveItem(ctx, r, cart.ID, ref)
		if err != nil {
			return err
		}
		if item.Quantity <= 1 {
			err = r.CartItems().DeleteByID(ctx, item.ID)
		} else {
			err = r.CartItems().AddQuantity(ctx, item.ID, -1)
		}
		if err != nil {
			return dbError(err)
		}
		return nil
	})
}

// SetVariant は明細のバリエーション（サイズ等）を同じ商品内で付け替える。
func (u *CartUsecase) SetVariant(ctx context.Context, userID int64, in SetVariantInput) (CartView, error) {
	if err := u.validator.ValidateUserID(userID); err != nil {
		return CartView{}, invalidInput(err.Error())
	}
	if err := u.validator.ValidateSetVariant(in); err != nil {
		return CartView{}, invalidInput(err.Error())
	}

	return u.mutate(ctx, "setVariant", userID, false, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.resolveItem(ctx, r, cart.ID, LineRef{ProductID: in.ProductID, VariantID: in.CurrentVariantID})
		if err != nil {
			return err
		}
		if item.ProductVariantID == in.VariantID {
			return nil
		}

		current, err := r.Variants().FindByID(ctx, item.ProductVariantID)
		if err != nil {
			return dbError(err)
		}
		target, err := r.Variants().FindByID(ctx, in.VariantID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(CodeVariantNotFound, "variant not found")
		}
		if err != nil {
			return dbError(err)
		}
		if target.ProductID != current.ProductID {
			return invalidInput("variant does not belong to product")
		}

		// 付け替え先が既にカートにあると (cart, variant) が2行になる
		_, err = r.CartItems().FindByCartAndVariant(ctx, cart.ID, target.ID)
		if err == nil {
			return NewHTTPError(http.StatusBadRequest, CodeVariantAlreadyInCart, "variant already in cart")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return dbError(err)
		}

		if err := r.CartItems().UpdateVariant(ctx, item.ID, target.ID); err != nil {
			return dbError(err)
		}
		return nil
	})
}

// AttachIngredient はトッピングを付ける（既にあれば加算）。
// 明細が無ければ数量1で追加してから付ける。
func (u *CartUsecase) AttachIngredient(ctx context.Context, userID int64, in IngredientInput) (IngredientResult, error) {
	if err := u.validateIngredient(userID, in); err != nil {
		return IngredientResult{}, err
	}
	delta := in.Quantity
	if delta == 0 {
		delta = 1
	}

	var att model.CartItemIngredient
	view, err := u.mutate(ctx, "addIngredient", userID, true, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.findItem(ctx, r, cart.ID, in.Ref)
		if errors.Is(err, repo.ErrNotFound) {
			v, verr := u.resolveVariant(ctx, r, in.Ref.ProductID, in.Ref.VariantID)
			if verr != nil {
				return verr
			}
			item, err = u.upsertItem(ctx, r, cart.ID, v.ID, 1)
		}
		if err != nil {
			return asUsecaseError(err)
		}

		att, err = u.attach(ctx, r, item.ID, in.IngredientID, delta)
		return err
	})
	if err != nil {
		return IngredientResult{}, err
	}
	return IngredientResult{Cart: view, Attachment: &att}, nil
}

// IncreaseIngredient は付いているトッピングを+1（無ければ404）。
func (u *CartUsecase) IncreaseIngredient(ctx context.Context, userID int64, in IngredientInput) (IngredientResult, error) {
	if err := u.validateIngredient(userID, in); err != nil {
		return IngredientResult{}, err
	}

	var att model.CartItemIngredient
	view, err := u.mutate(ctx, "increaseIngredient", userID, false, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.resolveItem(ctx, r, cart.ID, in.Ref)
		if err != nil {
			return err
		}
		att, err = u.findAttachment(ctx, r, item.ID, in.IngredientID)
		if err != nil {
			return err
		}
		if err := r.CartItemIngredients().AddQuantity(ctx, att.ID, 1); err != nil {
			return dbError(err)
		}
		att.Quantity++
		return nil
	})
	if err != nil {
		return IngredientResult{}, err
	}
	return IngredientResult{Cart: view, Attachment: &att}, nil
}

// DetachIngredient はトッピングを外す。付いていなくても成功（冪等）。
func (u *CartUsecase) DetachIngredient(ctx context.Context, userID int64, in IngredientInput) (IngredientResult, error) {
	if err := u.validateIngredient(userID, in); err != nil {
		return IngredientResult{}, err
	}

	view, err := u.mutate(ctx, "removeIngredient", userID, false, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.resolveItem(ctx, r, cart.ID, in.Ref)
		if err != nil {
			return err
		}
		if _, err := r.CartItemIngredients().DeleteByItemAndIngredient(ctx, item.ID, in.IngredientID); err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return IngredientResult{}, err
	}
	return IngredientResult{Cart: view}, nil
}

// SetIngredientQuantity は個数を絶対値で設定。0なら外す。
func (u *CartUsecase) SetIngredientQuantity(ctx context.Context, userID int64, in IngredientInput) (IngredientResult, error) {
	if err := u.validateIngredient(userID, in); err != nil {
		return IngredientResult{}, err
	}

	var att *model.CartItemIngredient
	view, err := u.mutate(ctx, "updateIngredientQuantity", userID, false, func(r repo.TxRepos, cart model.Cart) error {
		item, err := u.resolveItem(ctx, r, cart.ID, in.Ref)
		if err != nil {
			return err
		}
		row, err := u.findAttachment(ctx, r, item.ID, in.IngredientID)
		if err != nil {
			return err
		}

		if in.Quantity == 0 {
			if err := r.CartItemIngredients().DeleteByID(ctx, row.ID); err != nil {
				return dbError(err)
			}
			return nil
		}

		if err := r.CartItemIngredients().UpdateQuantity(ctx, row.ID, in.Quantity); err != nil {
			return dbError(err)
		}
		row.Quantity = in.Quantity
		att = &row
		return nil
	})
	if err != nil {
		return IngredientResult{}, err
	}
	return IngredientResult{Cart: view, Attachment: att}, nil
}

// Summary は注文前の見積もり（割引・送料無料を反映した最終金額）。
// プロモは小計に対して判定する。使用回数はここでは増やさない。
func (u *CartUsecase) Summary(ctx context.Context, userID int64, promoCode string) (SummaryOutput, error) {
	view, err := u.GetCart(ctx, userID)
	if err != nil {
		return SummaryOutput{}, err
	}

	out := SummaryOutput{
		Subtotal:      view.Subtotal,
		DeliveryPrice: view.DeliveryPrice,
	}
	if promoCode != "" && u.promo != nil {
		res, err := u.promo.Apply(ctx, ApplyPromoInput{Code: promoCode, Amount: view.Subtotal})
		if err != nil {
			return SummaryOutput{}, err
		}
		out.PromoCode = res.Code
		out.Discount = res.Discount
		out.FreeShipping = res.FreeShipping
	}
	out.FinalPrice = pricing.FinalPrice(out.Subtotal, out.DeliveryPrice, out.Discount, out.FreeShipping)
	return out, nil
}

// ---- 共通 ----

type cartMutation func(r repo.TxRepos, cart model.Cart) error

// カート行をロック → 変更 → 明細から再計算して total_amount を保存、までを1つのTxで行う。
// 通知はコミット後。
func (u *CartUsecase) mutate(ctx context.Context, op string, userID int64, create bool, fn cartMutation) (CartView, error) {
	var view CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := u.lockCart(ctx, r, userID, create)
		if err != nil {
			return err
		}
		if err := fn(r, cart); err != nil {
			return err
		}
		view, err = u.recalculate(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartView{}, u.fail(op, userID, err)
	}

	u.publish(ctx, op, view)
	return view, nil
}

func (u *CartUsecase) lockCart(ctx context.Context, r repo.TxRepos, userID int64, create bool) (model.Cart, error) {
	if create {
		cart, err := r.Carts().GetOrCreateForUpdate(ctx, userID, u.newToken())
		if err != nil {
			return model.Cart{}, dbError(err)
		}
		return cart, nil
	}

	cart, err := r.Carts().LockByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, notFound(CodeCartNotFound, "cart not found")
	}
	if err != nil {
		return model.Cart{}, dbError(err)
	}
	return cart, nil
}

// 合計は保存済みの行から毎回計算し直す
func (u *CartUsecase) recalculate(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartView, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartView{}, dbError(err)
	}
	view, err := buildCartView(cart, items, u.deliveryPrice)
	if err != nil {
		return CartView{}, pricingError(err)
	}
	if err := r.Carts().UpdateTotalAmount(ctx, cart.ID, view.TotalAmount); err != nil {
		return CartView{}, dbError(err)
	}
	return view, nil
}

// バリエーション解決: 指定あり → 商品の最初のバリエーション → 自動作成
func (u *CartUsecase) resolveVariant(ctx context.Context, r repo.TxRepos, productID int64, variantID int64) (model.ProductVariant, error) {
	if variantID > 0 {
		v, err := r.Variants().FindByID(ctx, variantID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductVariant{}, notFound(CodeVariantNotFound, "variant not found")
		}
		if err != nil {
			return model.ProductVariant{}, dbError(err)
		}
		if productID > 0 && v.ProductID != productID {
			return model.ProductVariant{}, invalidInput("variant does not belong to product")
		}
		return v, nil
	}

	p, err := r.Products().FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductVariant{}, notFound(CodeProductNotFound, "product not found")
	}
	if err != nil {
		return model.ProductVariant{}, dbError(err)
	}

	v, err := r.Variants().FirstByProductID(ctx, p.ID)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.ProductVariant{}, dbError(err)
	}

	v, err = r.Variants().CreateSynthetic(ctx, p)
	if err != nil {
		return model.ProductVariant{}, dbError(err)
	}
	return v, nil
}

// (cart, variant) の行があれば加算、無ければ作成
func (u *CartUsecase) upsertItem(ctx context.Context, r repo.TxRepos, cartID int64, variantID int64, qty int64) (model.CartItem, error) {
	item, err := r.CartItems().FindByCartAndVariant(ctx, cartID, variantID)
	if err == nil {
		if err := r.CartItems().AddQuantity(ctx, item.ID, qty); err != nil {
			return model.CartItem{}, dbError(err)
		}
		item.Quantity += qty
		return item, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, dbError(err)
	}

	item, err = r.CartItems().Create(ctx, model.CartItem{
		CartID:           cartID,
		ProductVariantID: variantID,
		Quantity:         qty,
	})
	if err != nil {
		return model.CartItem{}, dbError(err)
	}
	return item, nil
}

func (u *CartUsecase) attach(ctx context.Context, r repo.TxRepos, itemID int64, ingredientID int64, delta int64) (model.CartItemIngredient, error) {
	if _, err := r.Ingredients().FindByID(ctx, ingredientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.CartItemIngredient{}, notFound(CodeIngredientNotFound, "ingredient not found")
		}
		return model.CartItemIngredient{}, dbError(err)
	}

	row, err := r.CartItemIngredients().FindByItemAndIngredient(ctx, itemID, ingredientID)
	if err == nil {
		if err := r.CartItemIngredients().AddQuantity(ctx, row.ID, delta); err != nil {
			return model.CartItemIngredient{}, dbError(err)
		}
		row.Quantity += delta
		return row, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.CartItemIngredient{}, dbError(err)
	}

	row, err = r.CartItemIngredients().Create(ctx, model.CartItemIngredient{
		CartItemID:   itemID,
		IngredientID: ingredientID,
		Quantity:     delta,
	})
	if err != nil {
		return model.CartItemIngredient{}, dbError(err)
	}
	return row, nil
}

// repoのエラーをそのまま返す（ErrNotFoundの判定は呼び出し側）
func (u *CartUsecase) findItem(ctx context.Context, r repo.TxRepos, cartID int64, ref LineRef) (model.CartItem, error) {
	if ref.VariantID > 0 {
		return r.CartItems().FindByCartAndVariant(ctx, cartID, ref.VariantID)
	}
	return r.CartItems().FindByCartAndProduct(ctx, cartID, ref.ProductID)
}

func (u *CartUsecase) resolveItem(ctx context.Context, r repo.TxRepos, cartID int64, ref LineRef) (model.CartItem, error) {
	item, err := u.findItem(ctx, r, cartID, ref)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, notFound(CodeItemNotFound, "item not found in cart")
	}
	if err != nil {
		return model.CartItem{}, dbError(err)
	}
	return item, nil
}

func (u *CartUsecase) findAttachment(ctx context.Context, r repo.TxRepos, itemID int64, ingredientID int64) (model.CartItemIngredient, error) {
	row, err := r.CartItemIngredients().FindByItemAndIngredient(ctx, itemID, ingredientID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItemIngredient{}, notFound(CodeIngredientNotInCart, "ingredient not found in cart")
	}
	if err != nil {
		return model.CartItemIngredient{}, dbError(err)
	}
	return row, nil
}

func (u *CartUsecase) validateRef(userID int64, ref LineRef) error {
	if err := u.validator.ValidateUserID(userID); err != nil {
		return invalidInput(err.Error())
	}
	if err := u.validator.ValidateLineRef(ref); err != nil {
		return invalidInput(err.Error())
	}
	return nil
}

func (u *CartUsecase) validateIngredient(userID int64, in IngredientInput) error {
	if err := u.validator.ValidateUserID(userID); err != nil {
		return invalidInput(err.Error())
	}
	if err := u.validator.ValidateIngredient(in); err != nil {
		return invalidInput(err.Error())
	}
	return nil
}

// HTTPError以外（想定外）は500に寄せて、500はログに残す
func (u *CartUsecase) fail(op string, userID int64, err error) error {
	err = asUsecaseError(err)
	if he, ok := AsHTTPError(err); ok && he.Status >= http.StatusInternalServerError {
		u.log.Error("cart operation failed", "op", op, "userId", userID, "err", he.Err)
	}
	return err
}

func (u *CartUsecase) publish(ctx context.Context, op string, view CartView) {
	ev := CartChangedEvent{
		CartID:      view.ID,
		UserID:      view.UserID,
		TotalAmount: view.TotalAmount,
		Op:          op,
	}
	if err := u.notifier.CartChanged(ctx, ev); err != nil {
		u.log.Warn("cart notify failed", "op", op, "cartId", view.ID, "err", err)
	}
}

func asUsecaseError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return dbError(err)
}
