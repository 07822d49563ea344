package utils

// User-facing response messages. The client renders these verbatim.
const (
	MsgTimeout      = "خطای اتصال"
	MsgSuccess      = "عملیات با موفقیت انجام شد"
	MsgFailed       = "خطایی در انجام عملیات رخ داده است"
	MsgAccessDenied = "شما اجازه دسترسی ندارید"

	MsgNotValidEmailOrPhone = "شماره موبایل و یا ایمیل وارد شده نامعتبر میباشد"
	MsgWrongOTP             = "کد تایید اشتباه میباشد"
	MsgOTPSent              = "کد تایید به %s ارسال شد"
	MsgLoginSuccess         = "با موفقیت وارد شدید"
	MsgWrongPassword        = "کلمه عبور اشتباه میباشد"

	MsgOrderAddedToCart        = "محصول به سبد خرید اضافه شد"
	MsgOrderItemNotMoreThan    = "بیشتر از %d عدد موجود نمی باشد"
	MsgOrderItemReachLimit     = "حداکثر %d عدد از این محصول میتواند در سبد خرید باشد"
	MsgOrderItemCountIncreased = "به تعداد محصول در سبد خرید اضافه شد"
	MsgOrderItemCountDecreased = "از تعداد محصول در سبد خرید کم شد"
	MsgOrderItemRemoved        = "محصول از سبد خرید حذف شد"
	MsgOrderItemCleared        = "تمامی محصولات سبد خرید حذف شد"

	MsgAddressTooMany = "امکان ساخت بیش از 5 آدرس وجود ندارد"
	MsgAddressAdded   = "آدرس جدید با موفقیت ثبت شد"
	MsgAddressInvalid = "آدرس انتخاب شده نامعتبر می باشد"

	MsgCouponNotValid = "کد تخفیف وارد شده نا معتبر می باشد"

	MsgShippingOrAddressInvalid = "شیوه ارسال و یا آدرس انتخاب شده نامعتبر می باشد"
	MsgUsedCouponInvalid        = "کد تخفیف استفاده شده نامعتبر می باشد"
	MsgEmptyOrder               = "سبد خرید شما خالی می باشد"

	MsgFinalizingOrder     = "در حال نهایی سازی سفارش"
	MsgRedirectingToBank   = "در حال انتقال به درگاه پرداخت"
	MsgPaymentSuccessful   = "پرداخت با موفقیت انجام شد"
	MsgPaymentNotFound     = "پرداخت مورد نظر یافت نشد"
	MsgRepaymentExpired    = "مهلت پرداخت مجدد این سفارش به پایان رسیده است"
	MsgPaymentCancelByUser = "پرداخت توسط کاربر کنسل شده است"
)
