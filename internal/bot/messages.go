package bot

// Uzbek user facing texts. Templates use fmt verbs; values interpolated into
// Markdown templates must be escaped with format.MD first.
const (
	msgClientWelcome = "🌟 *Dunya Jewellery* ga xush kelibsiz!\n\nChiroyli zargarlik mahsulotlarimiz bilan tanishing:"
	msgAdminWelcome  = "👋 *Dunya Jewellery* boshqaruv paneli\n\nQuyidagi tugmalardan foydalaning:"

	msgAdminHelp = "🔧 *Admin Buyruqlari*\n\n" +
		"• /start - Asosiy menyu\n" +
		"• /add - Mahsulot qo'shish\n" +
		"• /add\\_contact - Kontakt qo'shish\n" +
		"• /edit\\_contact - Kontakt tahrirlash\n" +
		"• /cancel - Joriy amalni bekor qilish"
	msgClientHelp = "💍 *Dunya Jewellery*\n\n• /start - Asosiy menyu\n• Mahsulotlarni ko'rish uchun tugmalardan foydalaning"

	msgNoProductsAdmin  = "📦 Mahsulotlar yo'q. Yangi qo'shing."
	msgNoProductsClient = "🔍 Hozircha mahsulotlar mavjud emas."
	msgAllProducts      = "📦 *Barcha mahsulotlar*"
	msgClientProducts   = "🛍️ *Bizning mahsulotlar*"
	msgProductsShown    = "📋 *Barcha mahsulotlar ko'rsatildi*\n\nQuyidagi tugmalardan foydalaning:"
	msgProductsTotal    = "\n📋 Jami: %d ta mahsulot\n\n👆 Mahsulotni tanlang:"
	msgProductControl   = "🔧 *%s* - Boshqaruv"
	msgProductOrderLine = "📞 *Mahsulot*: %s"

	msgAddProductStart = "✏️ *Yangi mahsulot qo'shamiz!*\n\nMahsulot nomini yuboring:"
	msgEnterTitle      = "✏️ Mahsulot nomini yuboring:"
	msgEnterDesc       = "📄 Mahsulot tavsifini yuboring:\n\n💡 Tavsifsiz qoldirish uchun: -"
	msgEnterSizes      = "📏 O'lchamlarni yuboring (masalan: 16.5, 17, 18):"
	msgEnterImages     = "📸 Rasmlarni yuboring yoki *tayyor* yozing.\n\n⚠️ Yangi rasmlar eski rasmlarni almashtiradi"

	msgEditProductStart = "📝 Tahrirlash: *%s*\n\n"
	msgEditTitle        = "📝 Yangi nom yuboring\n\n💡 Hozirgi: %s"
	msgEditDesc         = "📄 Yangi tavsif yuboring\n\n💡 Hozirgi: %s"
	msgEditSizes        = "📏 Yangi o'lchamlar yuboring\n\n💡 Hozirgi: %s"
	msgEditImages       = "📸 Yangi rasmlarni yuboring yoki *tayyor* yozing\n\n💡 Hozirgi: %d ta\n⚠️ Yangi rasmlar eski rasmlarni almashtiradi"

	msgProductCreated = "✅ *%s* yaratildi! ID: %d"
	msgProductUpdated = "✅ *%s* yangilandi!"
	msgProductDeleted = "✅ *%s* o'chirildi!"
	msgProductShown   = "✅ *%s* mijozlarga ko'rsatiladi"
	msgProductHidden  = "⏸️ *%s* mijozlardan yashirildi"
	msgImageAdded     = "📸 %d-rasm qo'shildi! Yana yuboring yoki *tayyor* yozing."
	msgImagesReplaced = "📸 Eski rasmlar o'chirildi! Yangi rasmlar qo'shilmoqda..."

	msgAccessDenied    = "❌ Sizga ruxsat yo'q"
	msgProductNotFound = "❌ Mahsulot topilmadi"
	msgContactNotFound = "❌ Kontakt topilmadi"
	msgInvalidSizes    = "❌ Noto'g'ri format! Masalan: 16.5, 17, 18"
	msgInvalidPhones   = "❌ Noto'g'ri telefon raqam(lar): %s\n📝 Format: +998901234567"
	msgTitleTooShort   = "❌ Nom kamida 2 ta belgidan iborat bo'lishi kerak"
	msgLabelRequired   = "❌ Nom bo'sh bo'lmasligi kerak"
	msgKeepUnavailable = "⚠️ Yangi yozuvda saqlanadigan joriy qiymat yo'q"
	msgPhotoExpected   = "📸 Rasm yuboring yoki *tayyor* yozing."
	msgTextExpected    = "✍️ Matn yuboring."
	msgSaveFailed      = "❌ Xatolik: ma'lumotni saqlab bo'lmadi."
	msgSaveRetry       = "🔁 Oxirgi javobni qayta yuboring yoki /cancel bosing."
	msgErrorOccurred   = "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring."
	msgInvalidImages   = "⚠️ Rasmlar buzilgan - qayta yuklang"
	msgRateLimited     = "⏳ Iltimos, biroz kuting"

	msgFormCancelled   = "❌ Bekor qilindi"
	msgNothingToCancel = "ℹ️ Bekor qilinadigan amal yo'q"
	msgFormCommand     = "⚠️ Avval joriy amalni tugating yoki /cancel bosing."
	msgUnknownText     = "🤔 Tushunmadim. Menyu uchun /start bosing."

	msgDeleteConfirm        = "🗑️ *O'chirishni tasdiqlang*\n\nMahsulot: *%s*\n\nRostdan o'chirasizmi?"
	msgDeleteContactConfirm = "🗑️ *O'chirishni tasdiqlang*\n\nKontakt: *%s*\n\nRostdan o'chirasizmi?"
	msgDeleteCancelled      = "❌ Bekor qilindi"

	msgContactsHeader   = "📞 *Kontakt ma'lumotlari*"
	msgContactsTotal    = "\n📋 Jami: %d ta kontakt\n\n👆 Kontaktni tanlang:"
	msgNoContactsAdmin  = "📞 Kontaktlar yo'q. Yangi qo'shing."
	msgEditContactStart = "📞 Kontakt ma'lumotlarini tahrirlash\n\nQaysi qismini o'zgartirmoqchisiz?"

	msgAddContactStart  = "📞 *Yangi kontakt qo'shamiz!*\n\nKontakt nomini yuboring (masalan: Asosiy):"
	msgEnterLabel       = "🏷️ Kontakt nomini yuboring:"
	msgEnterTelegram    = "📱 Telegram username yuboring (masalan: @dunya\\_jewellery)\n\n💡 Bo'sh qoldirish uchun: -"
	msgEnterPhones      = "📞 Telefon raqamlarni yuboring\n\n📝 Format: +998901234567, +998907654321\n💡 Faqat O'zbekiston raqamlari"
	msgEnterInstagram   = "📷 Instagram username yuboring\n\n💡 Bo'sh qoldirish uchun: -"
	msgEditContactLabel = "📝 Kontakt tahrirlash: *%s*\n\n"
	msgEditLabel        = "🏷️ Yangi nom yuboring\n\n💡 Hozirgi: %s"
	msgEditTelegram     = "📱 Yangi Telegram yuboring\n\n💡 Hozirgi: %s"
	msgEditPhones       = "📞 Yangi telefon raqamlar ro'yxatini yuboring\n\n💡 Hozirgi: %s\n\n📝 Format: +998901234567, +998907654321\n💡 Faqat O'zbekiston raqamlari\n⚠️ Eski raqamlar o'chiriladi, yangi ro'yxat qo'shiladi"
	msgEditInstagram    = "📷 Yangi Instagram yuboring\n\n💡 Hozirgi: %s"

	msgContactCreated = "✅ *%s* kontakt yaratildi! ID: %d"
	msgContactUpdated = "✅ Kontakt ma'lumotlari yangilandi!"
	msgContactDeleted = "✅ *%s* kontakt o'chirildi!"

	msgClientContactHeader = "📞 Bog'lanish ma'lumotlari\n\n"
	msgOrderHeader         = "📞 Buyurtma\n\n🆔 Mahsulot: *%s* (ID: %d)\n\n"
	msgOrderHeaderNoTitle  = "📞 Buyurtma\n\n🆔 Mahsulot ID: %d\n\n"

	tplProductClient  = "💍 *%s*\n\n📝 %s\n📏 O'lchamlar: %s"
	tplProductAdmin   = "%s *%s*\n\n📝 %s\n📏 O'lchamlar: %s\n🖼️ Rasmlar: %d ta\n🆔 ID: %d"
	tplContactAdmin   = "📞 *Kontakt ma'lumotlari*\n\n🏷️ Nomi: %s\n📱 Telegram: %s\n📞 Telefonlar: %s\n📷 Instagram: %s\n🆔 ID: %d"
	tplContactListRow = "%s *%d* - %s\n"
	tplProductListRow = "%s *%d* - %s\n"

	defaultDescription = "Tavsif yo'q"
	defaultSizes       = "O'lcham yo'q"
	defaultAdminSizes  = "Yo'q"
	currentValueNone   = "Hozir yo'q"
	valueMissing       = "Yo'q"
)

// Button labels.
const (
	btnProducts      = "💍 Mahsulotlar"
	btnContact       = "📞 Bog'lanish"
	btnContacts      = "📇 Kontaktlar"
	btnOrder         = "📞 Buyurtma"
	btnEdit          = "✏️ Tahrirlash"
	btnDelete        = "🗑️ O'chirish"
	btnAddNew        = "➕ Yangi"
	btnAddContact    = "➕ Yangi kontakt"
	btnConfirmDelete = "✅ Ha"
	btnCancelDelete  = "❌ Yo'q"
	btnBackMain      = "🔙 Asosiy"
	btnBackToList    = "🔙 Ro'yxat"
	btnActivate      = "🟢 Faollashtirish"
	btnDeactivate    = "⏸️ Yashirish"
	btnEditTelegram  = "📱 Telegram"
	btnEditPhones    = "📞 Telefonlar"
	btnEditInstagram = "📷 Instagram"
	btnKeep          = "↩️ Joriysini qoldirish"
	btnDone          = "✅ Tayyor"
	btnCancelForm    = "❌ Bekor qilish"
)
