package constant

// Question categories used by the training store.
const (
	CategoryGreeting     = "greeting"
	CategoryInfoUmum     = "info_umum"
	CategoryNibUsaha     = "nib_usaha"
	CategoryIzinUsaha    = "izin_usaha"
	CategoryBangunan     = "bangunan"
	CategoryLingkungan   = "lingkungan"
	CategoryPerpanjangan = "perpanjangan"
	CategoryInvestasi    = "investasi"
	CategoryTracking     = "tracking"
	CategoryTeknis       = "teknis"
	CategoryKomplain     = "komplain"
	CategoryHygiene      = "hygiene"
	CategoryUmum         = "umum"
)

// CategoryRule pairs a category with the keywords that select it.
type CategoryRule struct {
	Category string
	Keywords []string
}

// CategoryRules drives automatic question categorization. The first rule with
// a keyword found in the lowercased question wins, so order matters: greeting
// and general-info words are checked before the licensing vocabularies.
var CategoryRules = []CategoryRule{
	{CategoryGreeting, []string{"halo", "selamat", "hai", "hello"}},
	{CategoryInfoUmum, []string{"info", "layanan", "chatbot", "alamat", "jam", "telepon", "nomor"}},
	{CategoryNibUsaha, []string{"nib", "daftar usaha", "pt perorangan", "cv", "oss", "kbli"}},
	{CategoryIzinUsaha, []string{"toko", "cafe", "umkm", "apotek", "konstruksi", "reklame"}},
	{CategoryBangunan, []string{"pbg", "slf", "bangunan", "gedung"}},
	{CategoryLingkungan, []string{"amdal", "ukl", "upl", "lingkungan"}},
	{CategoryPerpanjangan, []string{"perpanjang", "habis masa", "ubah data", "pindah alamat"}},
	{CategoryInvestasi, []string{"investasi", "pma", "investor", "penanaman modal", "lkpm"}},
	{CategoryTracking, []string{"lacak", "berkas", "registrasi", "verifikasi", "proses"}},
	{CategoryTeknis, []string{"password", "upload", "error", "server", "down", "formulir"}},
	{CategoryKomplain, []string{"komplain", "lambat", "konsultasi", "bantuan", "bingung"}},
	{CategoryHygiene, []string{"higiene", "sanitasi", "rumah makan", "laik"}},
}
