package cargolist

// Storage keys, one per state slice.
const (
	KeyHeader    = "balaka-header"
	KeyTable     = "balaka-tableData"
	KeyFooter    = "balaka-footer"
	KeyWatermark = "balaka-watermark"
	KeyTheme     = "balaka-theme"
)

// StorageKeys lists every slice key in load order.
var StorageKeys = []string{KeyHeader, KeyTable, KeyFooter, KeyWatermark, KeyTheme}

// DefaultHeader returns the built-in header.
func DefaultHeader() HeaderState {
	return HeaderState{
		CompanyName: "Balaka International Travels",
		Address:     "Sadar Road, Sylhet, Bangladesh",
		Tagline:     "কার্গো সার্ভিস: সৌদি আরব, দুবাই, ওমান, কাতার, কুয়েত",
		Mobile:      "মোবাইল: 01700-000000, 01800-000000",
		ListTitle:   "কার্গো মালামালের তালিকা",
	}
}

// DefaultFooter returns the built-in footer.
func DefaultFooter() FooterState {
	return FooterState{
		Warning:  "বি.দ্র.: অবৈধ ও নিষিদ্ধ মালামাল পাঠানো সম্পূর্ণ নিষেধ। তালিকার বাইরে কোন মালামাল গ্রহণ করা হবে না।",
		Examples: "যেমন: মাদকদ্রব্য, অস্ত্র, তরল দাহ্য পদার্থ, নগদ টাকা ও স্বর্ণালংকার।",
	}
}

// DefaultWatermark returns the built-in seal texts.
func DefaultWatermark() WatermarkState {
	return WatermarkState{
		TopArcText:    "Balaka International Travels",
		BottomArcText: "• Cargo •",
		CentralText:   "বলাকা",
		Show:          true,
	}
}

// DefaultTheme returns the built-in presentation settings.
func DefaultTheme() ThemeState {
	return ThemeState{
		FontFamily:        FontOptions[0].Value,
		HeadingFontFamily: FontOptions[0].Value,
		AccentColor:       "#c2410c",
		FontSize:          "16px",
	}
}

// DefaultRows returns a fresh copy of the built-in 21-row cargo list.
func DefaultRows() []TableRow {
	return cloneRows(defaultRows)
}

// DefaultDocument returns all five slices at their built-in values.
func DefaultDocument() Document {
	return Document{
		Header:    DefaultHeader(),
		Rows:      DefaultRows(),
		Footer:    DefaultFooter(),
		Watermark: DefaultWatermark(),
		Theme:     DefaultTheme(),
	}
}

var defaultRows = []TableRow{
	{ID: 1, Serial: "১", Description: "কম্বল", Quantity: "১ পিছ"},
	{ID: 2, Serial: "২", Description: "পাউডার দুধ", Quantity: "১ পিছ", Remarks: "ছোট প্যাকেট হলে ২ পিছ"},
	{ID: 3, Serial: "৩", Description: "চিনি", Quantity: "২ কেজি"},
	{ID: 4, Serial: "৪", Description: "খেজুর", Quantity: "৩ কেজি"},
	{ID: 5, Serial: "৫", Description: "চকলেট", Quantity: "২ কেজি"},
	{ID: 6, Serial: "৬", Description: "সাবান", Quantity: "৫ পিছ"},
	{ID: 7, Serial: "৭", Description: "শ্যাম্পু", Quantity: "২ পিছ", Remarks: "কসমেটিকস"},
	{ID: 8, Serial: "৮", Description: "লোশন", Quantity: "২ পিছ", Remarks: "সব কিছু মিলিয়ে ৪ কেজি"},
	{ID: 9, Serial: "৯", Description: "ক্রিম", Quantity: "৩ পিছ"},
	{ID: 10, Serial: "১০", Description: "তেল", Quantity: "২ পিছ"},
	{ID: 11, Serial: "১১", Description: "মেকাপ বক্স", Quantity: "১ পিছ"},
	{ID: 12, Serial: "১২", Description: "জায়নামাজ", Quantity: "৩ পিছ"},
	{ID: 13, Serial: "১৩", Description: "খেলনা", Quantity: "৩ পিছ"},
	{ID: 14, Serial: "১৪", Description: "জামা কাপড়", Quantity: "৪-৫ সেট", Remarks: "শর্ত সাপেক্ষে পাঠানো যাবে"},
	{ID: 15, Serial: "১৫", Description: "প্রেসার / রাইস কুকার", Quantity: "১ পিছ"},
	{ID: 16, Serial: "১৬", Description: "ইলেক্ট্রিক মালামাল"},
	{ID: 17, Serial: "১৭", Description: "টর্চ লাইট", Quantity: "২ পিছ"},
	{ID: 18, Serial: "১৮", Description: "মশলা আইটেম", Quantity: "১-২ কেজি", Remarks: "এলাচ, দারচিনি, জিরা ইত্যাদি"},
	{ID: 19, Serial: "১৯", Description: "আয়রন", Quantity: "১ পিছ"},
	{ID: 20, Serial: "২০", Description: "ঘড়ি / চশমা", Quantity: "২ পিছ"},
	{ID: 21, Serial: "২১", Description: "ল্যাপটপ", Quantity: "১ পিছ", Remarks: "চার্জার ছাড়া দেওয়া যাবে না"},
}
